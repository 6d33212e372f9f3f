// Package errs defines the sentinel errors shared by repository
// implementations and the domain services that inspect them. It lives
// below the repository package so domain packages can match on these
// errors without importing repository (whose interfaces import the
// domain packages back).
package errs

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
