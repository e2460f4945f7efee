// Package errs holds the sentinel errors returned by store
// implementations. It has no imports of its own, so domain services can
// match on store errors without pulling in the repository interfaces,
// which reference the domain types.
package errs

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint rejects a
	// create, e.g. a second annotation set for the same (user, document)
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
