package store

import "errors"

// Storage errors shared by every backend.
var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a run whose ID already
	// exists. Runs are immutable once written.
	ErrDuplicateKey = errors.New("duplicate key: runs are immutable once written")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
