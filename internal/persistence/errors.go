package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a record with the same identifier
	// already exists.
	ErrDuplicate = errors.New("persistence: duplicate")
)
