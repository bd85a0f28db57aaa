package item

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound indicates the item doesn't exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidInput indicates invalid item input.
	ErrInvalidInput = errors.New("invalid item input")
	// ErrInvalidStatus indicates an unknown checklist status.
	ErrInvalidStatus = errors.New("invalid item status")
)

// ValidationError describes the first invalid field of a draft batch.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
