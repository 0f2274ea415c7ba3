package lens

import "errors"

// Lenses are total over their declared domain. Building or applying one
// outside that domain is a programming error and panics with an error
// wrapping one of these sentinels.
var (
	ErrNotRecord     = errors.New("lens: value is not a record")
	ErrUnknownField  = errors.New("lens: unknown field")
	ErrFieldType     = errors.New("lens: field type mismatch")
	ErrNegativeIndex = errors.New("lens: negative index")
	ErrPageSize      = errors.New("lens: page size must be positive")
)
