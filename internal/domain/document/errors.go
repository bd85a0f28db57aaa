package document

import "errors"

var (
	// ErrDocumentNotFound indicates the document doesn't exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidInput indicates invalid document input.
	ErrInvalidInput = errors.New("invalid document input")
	// ErrInvalidBaseDate indicates a base date in neither YYYY-MM-DD nor DD/MM/YYYY.
	ErrInvalidBaseDate = errors.New("invalid base date")
)
