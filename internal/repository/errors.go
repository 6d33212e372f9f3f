package repository

import "github.com/cadencehq/cadence/internal/repository/errs"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errs.ErrNotFound

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errs.ErrForeignKeyViolation

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errs.ErrInvalidInput
)
