package state

import (
	"fmt"
	"maps"
	"slices"

	"github.com/odvcencio/furry-lens/lens"
)

// Record combines refs into one view of R, a struct or string-keyed map
// whose fields are named after the map keys. All refs must belong to the
// same store. Setting the record writes each field in ascending name order
// inside one transaction.
func Record[R any](fields map[string]Ref[any]) *View[R] {
	if len(fields) == 0 {
		panic(fmt.Errorf("record: %w", ErrEmptyRecord))
	}
	names := slices.Sorted(maps.Keys(fields))
	h := fields[names[0]].owner()
	for _, name := range names[1:] {
		if fields[name].owner() != h {
			panic(fmt.Errorf("record field %q: %w", name, ErrForeignRef))
		}
	}
	return &View[R]{
		hub: h,
		get: func(snapshot any) R {
			values := make(map[string]any, len(names))
			for _, name := range names {
				values[name] = fields[name].project(snapshot)
			}
			return lens.Assemble[R](values)
		},
		set: func(value R) {
			h.transaction(func() {
				for _, name := range names {
					fields[name].Set(lens.Extract(value, name))
				}
			})
		},
	}
}
