package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced record does not exist or
	// its identifier is not valid for the active datastore.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique field (email, genre name) is taken.
	ErrConflict = errors.New("already exists")

	// ErrValidation marks client input that failed validation.
	ErrValidation = errors.New("validation failed")
)
