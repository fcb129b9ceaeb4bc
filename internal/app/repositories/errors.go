package repositories

import "errors"

// Shared repository errors, translated into apperrors by the services
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEntry is returned when a write violates a unique constraint.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
