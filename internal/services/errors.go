package services

import "errors"

// Sentinel errors shared by all services. Handlers map these to HTTP statuses
// with errors.Is instead of matching message text.
var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a uniqueness violation (name or composite key).
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidInput signals a request that failed service-side validation.
	ErrInvalidInput = errors.New("invalid input")
)
