package lens

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Record combines several lenses over the same source into one lens onto R.
//
// R is either a struct, whose fields are matched to the lens names, or a map
// with string keys. Set applies each field's lens in ascending name order,
// threading the source through every step.
func Record[S, R any](fields map[string]Lens[S, any]) Lens[S, R] {
	names := slices.Sorted(maps.Keys(fields))
	return Lens[S, R]{
		get: func(s S) R {
			values := make(map[string]any, len(names))
			for _, name := range names {
				values[name] = fields[name].get(s)
			}
			return Assemble[R](values)
		},
		set: func(s S, r R) S {
			for _, name := range names {
				s = fields[name].set(s, Extract(r, name))
			}
			return s
		},
	}
}

// Assemble builds a record of type R from named values.
// It panics if R is neither a struct nor a string-keyed map, or if a name has
// no matching exported field.
func Assemble[R any](values map[string]any) R {
	rt := reflect.TypeFor[R]()
	out := reflect.New(rt).Elem()
	switch {
	case rt.Kind() == reflect.Struct:
		for name, v := range values {
			sf, ok := rt.FieldByName(name)
			if !ok || !sf.IsExported() {
				panic(fmt.Errorf("field %q of %s: %w", name, rt, ErrUnknownField))
			}
			assign(out.FieldByIndex(sf.Index), reflect.ValueOf(&v).Elem(), name)
		}
	case rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String:
		out.Set(reflect.MakeMapWithSize(rt, len(values)))
		for name, v := range values {
			elem := reflect.New(rt.Elem()).Elem()
			assign(elem, reflect.ValueOf(&v).Elem(), name)
			out.SetMapIndex(reflect.ValueOf(name).Convert(rt.Key()), elem)
		}
	default:
		panic(fmt.Errorf("assemble %s: %w", rt, ErrNotRecord))
	}
	return out.Interface().(R)
}

// Extract returns the named field of a struct or string-keyed map.
// A missing map key yields nil.
func Extract(record any, name string) any {
	rv := reflect.ValueOf(record)
	switch {
	case rv.Kind() == reflect.Struct:
		sf, ok := rv.Type().FieldByName(name)
		if !ok || !sf.IsExported() {
			panic(fmt.Errorf("field %q of %s: %w", name, rv.Type(), ErrUnknownField))
		}
		return rv.FieldByIndex(sf.Index).Interface()
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	default:
		panic(fmt.Errorf("extract %q from %T: %w", name, record, ErrNotRecord))
	}
}
