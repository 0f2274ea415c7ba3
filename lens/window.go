package lens

import (
	"fmt"
	"slices"
)

// First focuses on the first n elements, or fewer if the sequence is shorter.
// Setting a longer or shorter window grows or shrinks the sequence.
func First[E any](n int) Lens[[]E, []E] {
	return split[E](func(length int) int { return min(max(n, 0), length) }, true)
}

// Drop focuses on everything after the first n elements.
func Drop[E any](n int) Lens[[]E, []E] {
	return split[E](func(length int) int { return min(max(n, 0), length) }, false)
}

// Last focuses on the last n elements, or fewer if the sequence is shorter.
func Last[E any](n int) Lens[[]E, []E] {
	return split[E](func(length int) int { return max(length-max(n, 0), 0) }, false)
}

// DropEnd focuses on everything before the last n elements.
func DropEnd[E any](n int) Lens[[]E, []E] {
	return split[E](func(length int) int { return max(length-max(n, 0), 0) }, true)
}

// split focuses on one side of a cut point computed from the sequence length.
func split[E any](cut func(length int) int, head bool) Lens[[]E, []E] {
	return Lens[[]E, []E]{
		get: func(xs []E) []E {
			at := cut(len(xs))
			if head {
				return slices.Clone(xs[:at])
			}
			return slices.Clone(xs[at:])
		},
		set: func(xs, window []E) []E {
			at := cut(len(xs))
			if head {
				return slices.Concat(window, xs[at:])
			}
			return slices.Concat(xs[:at], window)
		},
	}
}

// Paginate splits a sequence into pages of n elements; the last page may be short.
// It panics if n is not positive.
func Paginate[E any](n int) Lens[[]E, [][]E] {
	if n <= 0 {
		panic(fmt.Errorf("paginate %d: %w", n, ErrPageSize))
	}
	return PaginateFunc[E](func(int) int { return n })
}

// PaginateFunc splits a sequence into pages whose sizes are given by size(page).
//
// Pages are cut until the sequence is used up, so the page count depends on
// the data. Negative sizes count as zero. A size function that keeps
// returning zero for a non-empty sequence never terminates.
//
// Set concatenates the pages; their boundaries need not match the ones Get
// produced.
func PaginateFunc[E any](size func(page int) int) Lens[[]E, [][]E] {
	return Lens[[]E, [][]E]{
		get: func(xs []E) [][]E {
			var pages [][]E
			for off, page := 0, 0; off < len(xs); page++ {
				n := min(max(size(page), 0), len(xs)-off)
				pages = append(pages, slices.Clone(xs[off:off+n]))
				off += n
			}
			return pages
		},
		set: func(_ []E, pages [][]E) []E {
			return slices.Concat(pages...)
		},
	}
}
