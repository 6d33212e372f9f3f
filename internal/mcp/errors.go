package mcp

import (
	"errors"
	"fmt"

	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/transport"
)

// APIError represents an RPC error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, schedule.ErrInvalidRule):
		return &APIError{Code: "INVALID_RULE", Message: err.Error(), RecoveryHint: "Check pattern, start and end dates"}
	case errors.Is(err, ledger.ErrInvalidReference):
		return &APIError{Code: "INVALID_REFERENCE", Message: err.Error(), RecoveryHint: "Reference number must be exactly 15 digits with a name"}
	case errors.Is(err, schedule.ErrInvalidPeriodKey):
		return &APIError{Code: "INVALID_PERIOD", Message: err.Error(), RecoveryHint: "Use YYYY-MM for month periods or YYYY-MM-DD for day periods"}
	case errors.Is(err, ledger.ErrUnknownClient), errors.Is(err, task.ErrUnknownAssignmentClient):
		return &APIError{Code: "UNKNOWN_CLIENT", Message: err.Error(), RecoveryHint: "Client must be on the task roster"}
	case errors.Is(err, ledger.ErrNotVisible):
		return &APIError{Code: "NOT_VISIBLE", Message: "client not visible to viewer"}
	case errors.Is(err, task.ErrInvalidInput), errors.Is(err, ledger.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, transport.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "viewer may not perform this operation"}
	default:
		return nil
	}
}
