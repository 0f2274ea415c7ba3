package lens

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// EqualValue compares values structurally. Nil and empty collections are equal.
func EqualValue[T any](a, b T) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Key focuses on the value stored under k.
//
// Setting an absent value deletes the key, so Get after Set(m, None) is
// None rather than a stored zero value.
func Key[K comparable, V any](k K) Lens[map[K]V, Option[V]] {
	return Lens[map[K]V, Option[V]]{
		get: func(m map[K]V) Option[V] {
			if v, ok := m[k]; ok {
				return Some(v)
			}
			return None[V]()
		},
		set: func(m map[K]V, o Option[V]) map[K]V {
			out := maps.Clone(m)
			if out == nil {
				out = make(map[K]V)
			}
			if v, ok := o.Get(); ok {
				out[k] = v
			} else {
				delete(out, k)
			}
			return out
		},
	}
}

// Index focuses on element i of a sequence.
//
// Get is absent when i is out of bounds. Setting an absent value removes the
// element and shifts the rest left. Setting a present value replaces element
// i, appends it when i == len, and grows the sequence when i > len. Plain
// element types have no hole marker, so growth pads with the zero value;
// use SparseIndex when the gaps must stay distinguishable.
func Index[E any](i int) Lens[[]E, Option[E]] {
	checkIndex(i)
	return Lens[[]E, Option[E]]{
		get: func(xs []E) Option[E] {
			if i >= len(xs) {
				return None[E]()
			}
			return Some(xs[i])
		},
		set: func(xs []E, o Option[E]) []E {
			v, ok := o.Get()
			if !ok {
				return remove(xs, i)
			}
			var pad E
			return place(xs, i, v, pad)
		},
	}
}

// SparseIndex focuses on slot i of a sequence that may contain holes.
//
// Growing past the end fills [len, i) with holes. Removing an element trims
// any holes left at the end, so a sparse sequence never ends in a hole.
func SparseIndex[T any](i int) Lens[[]Option[T], Option[T]] {
	checkIndex(i)
	return Lens[[]Option[T], Option[T]]{
		get: func(xs []Option[T]) Option[T] {
			if i >= len(xs) {
				return None[T]()
			}
			return xs[i]
		},
		set: func(xs []Option[T], o Option[T]) []Option[T] {
			if o.IsNone() {
				return trimHoles(remove(xs, i))
			}
			return place(xs, i, o, None[T]())
		},
	}
}

// Def substitutes d for an absent value. Writing d back requests deletion.
//
// Def breaks the lens round-trip law for d on purpose: Set(o, d) stores
// absence and Get then yields d again.
func Def[T any](d T) Lens[Option[T], T] {
	return DefFunc(d, EqualValue[T])
}

// DefFunc is Def with an explicit equality check.
func DefFunc[T any](d T, eq EqualFunc[T]) Lens[Option[T], T] {
	if eq == nil {
		eq = EqualValue[T]
	}
	return Lens[Option[T], T]{
		get: func(o Option[T]) T {
			return o.OrElse(d)
		},
		set: func(_ Option[T], v T) Option[T] {
			if eq(v, d) {
				return None[T]()
			}
			return Some(v)
		},
	}
}

func checkIndex(i int) {
	if i < 0 {
		panic(fmt.Errorf("index %d: %w", i, ErrNegativeIndex))
	}
}

func remove[E any](xs []E, i int) []E {
	if i >= len(xs) {
		return slices.Clone(xs)
	}
	out := make([]E, 0, len(xs)-1)
	out = append(out, xs[:i]...)
	return append(out, xs[i+1:]...)
}

func place[E any](xs []E, i int, v, pad E) []E {
	n := max(len(xs), i+1)
	out := make([]E, n)
	copy(out, xs)
	for j := len(xs); j < i; j++ {
		out[j] = pad
	}
	out[i] = v
	return out
}

func trimHoles[T any](xs []Option[T]) []Option[T] {
	end := len(xs)
	for end > 0 && xs[end-1].IsNone() {
		end--
	}
	return xs[:end]
}
