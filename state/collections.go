package state

import (
	"slices"

	"github.com/odvcencio/furry-lens/lens"
)

// Each returns one view per element of r, valid for its current length.
// Call Each again after inserting or removing elements.
func Each[E any](r Ref[[]E]) []*View[lens.Option[E]] {
	n := len(r.Get())
	views := make([]*View[lens.Option[E]], n)
	for i := range n {
		views[i] = Via(r, lens.Index[E](i))
	}
	return views
}

// EachSparse is Each for sequences with holes.
func EachSparse[T any](r Ref[[]lens.Option[T]]) []*View[lens.Option[T]] {
	n := len(r.Get())
	views := make([]*View[lens.Option[T]], n)
	for i := range n {
		views[i] = Via(r, lens.SparseIndex[T](i))
	}
	return views
}

// Glue views a followed by b as one sequence. Setting it splits the new
// value at the current length of a and writes both halves in one transaction.
func Glue[E any](a, b Ref[[]E]) *View[[]E] {
	return Substore(a,
		func() []E {
			return slices.Concat(a.Get(), b.Get())
		},
		func(v []E) {
			at := min(len(a.Get()), len(v))
			a.Transaction(func() {
				a.Set(slices.Clone(v[:at]))
				b.Set(slices.Clone(v[at:]))
			})
		},
	)
}

// Arr runs op on a copy of r's sequence, commits the copy and returns op's result.
func Arr[E, R any](r Ref[[]E], op func(xs *[]E) R) R {
	xs := slices.Clone(r.Get())
	out := op(&xs)
	r.Set(xs)
	return out
}

// Splice removes deleteCount elements at start, inserts items there, and
// returns the removed elements. A negative start counts from the end; both
// arguments are clamped to the sequence.
func Splice[E any](r Ref[[]E], start, deleteCount int, items ...E) []E {
	return Arr(r, func(xs *[]E) []E {
		n := len(*xs)
		if start < 0 {
			start = max(n+start, 0)
		}
		start = min(start, n)
		end := start + min(max(deleteCount, 0), n-start)
		removed := slices.Clone((*xs)[start:end])
		*xs = slices.Replace(*xs, start, end, items...)
		return removed
	})
}

// Push appends items and returns the new length.
func Push[E any](r Ref[[]E], items ...E) int {
	return Arr(r, func(xs *[]E) int {
		*xs = append(*xs, items...)
		return len(*xs)
	})
}

// Filter keeps the elements for which keep returns true and returns how many
// were removed.
func Filter[E any](r Ref[[]E], keep func(E) bool) int {
	return Arr(r, func(xs *[]E) int {
		n := len(*xs)
		*xs = slices.DeleteFunc(*xs, func(x E) bool { return !keep(x) })
		return n - len(*xs)
	})
}
