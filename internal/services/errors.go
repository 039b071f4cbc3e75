package services

import "errors"

// Service-level failure taxonomy. Handlers translate these to status codes
// with errors.Is; anything outside the taxonomy is an internal fault and is
// surfaced to clients as an opaque 500.
var (
	// ErrValidation marks a missing or invalid required field.
	ErrValidation = errors.New("missing required fields")
	// ErrNotFound marks an id that resolves to no record.
	ErrNotFound = errors.New("not found")
)
