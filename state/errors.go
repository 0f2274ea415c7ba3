package state

import "errors"

var (
	// ErrForeignRef reports refs from different stores combined into one view.
	ErrForeignRef = errors.New("state: refs belong to different stores")
	// ErrEmptyRecord reports a record view with no fields.
	ErrEmptyRecord = errors.New("state: record has no fields")
)
