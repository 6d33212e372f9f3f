package task

import "errors"

var (
	// ErrTaskNotFound indicates the recurring task doesn't exist.
	ErrTaskNotFound = errors.New("recurring task not found")
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrUnknownAssignmentClient indicates an assignment references a client
	// that is not on the task roster.
	ErrUnknownAssignmentClient = errors.New("assignment references client outside task roster")
)
