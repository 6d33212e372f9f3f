package ledger

import "errors"

var (
	// ErrInvalidInput indicates invalid ledger input.
	ErrInvalidInput = errors.New("invalid ledger input")
	// ErrInvalidReference indicates a missing or malformed authorization
	// reference on a task that requires one.
	ErrInvalidReference = errors.New("invalid authorization reference")
	// ErrUnknownClient indicates a change referencing a client outside the
	// task roster.
	ErrUnknownClient = errors.New("client not on task roster")
	// ErrNotVisible indicates a change on a client outside the viewer's
	// visible set.
	ErrNotVisible = errors.New("client not visible to viewer")
)
