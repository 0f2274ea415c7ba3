package lens

import "github.com/google/go-cmp/cmp"

// Option is a value that may be absent. The zero value is absent.
//
// Absent options stand for missing map keys and for holes in sequences.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, ok: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the value is absent.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse returns the value, or fallback when absent.
func (o Option[T]) OrElse(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// Equal reports whether both options are absent, or both present with equal values.
func (o Option[T]) Equal(other Option[T]) bool {
	if o.ok != other.ok {
		return false
	}
	if !o.ok {
		return true
	}
	return cmp.Equal(o.value, other.value)
}

// Sparse lifts every element of xs into a present Option.
func Sparse[T any](xs []T) []Option[T] {
	out := make([]Option[T], len(xs))
	for i, x := range xs {
		out[i] = Some(x)
	}
	return out
}

// Dense returns the present elements of xs, skipping holes.
func Dense[T any](xs []Option[T]) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if v, ok := x.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}
