// Package lens provides composable, copy-on-write views into immutable values.
//
// A Lens pairs a get function with a set function. Set never mutates its
// input: it returns a fresh outer value with the focused part replaced.
// Lenses are plain values; compose them with Compose and apply them through
// a state.Store to get batched change notifications.
package lens

import (
	"fmt"
	"reflect"
)

// Lens focuses on an inner value A of an outer value S.
type Lens[S, A any] struct {
	get func(S) A
	set func(S, A) S
}

// New creates a lens from get and set functions.
func New[S, A any](get func(S) A, set func(S, A) S) Lens[S, A] {
	return Lens[S, A]{get: get, set: set}
}

// Get returns the focused value.
func (l Lens[S, A]) Get(source S) A {
	return l.get(source)
}

// Set returns a copy of source with the focused value replaced.
func (l Lens[S, A]) Set(source S, value A) S {
	return l.set(source, value)
}

// Modify applies fn to the focused value.
func (l Lens[S, A]) Modify(source S, fn func(A) A) S {
	return l.set(source, fn(l.get(source)))
}

// Compose focuses inner on the value focused by outer.
func Compose[S, A, B any](outer Lens[S, A], inner Lens[A, B]) Lens[S, B] {
	return Lens[S, B]{
		get: func(s S) B {
			return inner.get(outer.get(s))
		},
		set: func(s S, b B) S {
			return outer.set(s, inner.set(outer.get(s), b))
		},
	}
}

// Identity focuses on the whole value.
func Identity[S any]() Lens[S, S] {
	return Lens[S, S]{
		get: func(s S) S { return s },
		set: func(_ S, s S) S { return s },
	}
}

// Iso views S as A through a pair of inverse functions.
// from(to(x)) must equal x; this is not checked.
func Iso[S, A any](to func(S) A, from func(A) S) Lens[S, A] {
	return Lens[S, A]{
		get: to,
		set: func(_ S, a A) S { return from(a) },
	}
}

// Erase forgets the static type of the focused value.
// Setting a value of the wrong dynamic type panics.
func Erase[T any]() Lens[T, any] {
	return Lens[T, any]{
		get: func(t T) any { return t },
		set: func(_ T, v any) T {
			if v == nil {
				var zero T
				return zero
			}
			t, ok := v.(T)
			if !ok {
				panic(fmt.Errorf("erase: got %T, want %s: %w", v, reflect.TypeFor[T](), ErrFieldType))
			}
			return t
		},
	}
}

// Field focuses on the exported struct field called name.
// It panics if S is not a struct, the field does not exist or is unexported,
// or the field's type is not assignable to A.
func Field[S, A any](name string) Lens[S, A] {
	st := reflect.TypeFor[S]()
	if st.Kind() != reflect.Struct {
		panic(fmt.Errorf("field %q of %s: %w", name, st, ErrNotRecord))
	}
	sf, ok := st.FieldByName(name)
	if !ok || !sf.IsExported() {
		panic(fmt.Errorf("field %q of %s: %w", name, st, ErrUnknownField))
	}
	at := reflect.TypeFor[A]()
	if !sf.Type.AssignableTo(at) {
		panic(fmt.Errorf("field %q of %s is %s, not %s: %w", name, st, sf.Type, at, ErrFieldType))
	}
	index := sf.Index
	return Lens[S, A]{
		get: func(s S) A {
			fv := reflect.ValueOf(&s).Elem().FieldByIndex(index)
			// A nil interface field reads as the zero A.
			v, _ := fv.Interface().(A)
			return v
		},
		set: func(s S, a A) S {
			out := reflect.New(st).Elem()
			out.Set(reflect.ValueOf(s))
			assign(out.FieldByIndex(index), reflect.ValueOf(&a).Elem(), name)
			return out.Interface().(S)
		},
	}
}

// assign stores v into dst, unwrapping interface values when the field is concrete.
func assign(dst, v reflect.Value, name string) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			dst.SetZero()
			return
		}
		if !v.Type().AssignableTo(dst.Type()) {
			v = v.Elem()
		}
	}
	if !v.Type().AssignableTo(dst.Type()) {
		panic(fmt.Errorf("field %q is %s, got %s: %w", name, dst.Type(), v.Type(), ErrFieldType))
	}
	dst.Set(v)
}
