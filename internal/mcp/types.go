package mcp

import (
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/task"
)

type ClientParam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AssignmentParam struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name,omitempty"`
	ClientIDs []string `json:"client_ids"`
}

type CreateTaskParams struct {
	Name                    string            `json:"name"`
	Description             string            `json:"description,omitempty"`
	Pattern                 string            `json:"pattern"`
	StartDate               string            `json:"start_date"`
	EndDate                 string            `json:"end_date,omitempty"`
	RequiresReferenceNumber bool              `json:"requires_reference_number,omitempty"`
	Clients                 []ClientParam     `json:"clients"`
	Assignments             []AssignmentParam `json:"assignments,omitempty"`
}

type GetTaskParams struct {
	ID string `json:"id"`
}

type ListTasksParams struct{}

type UpdateTaskParams struct {
	ID                      string            `json:"id"`
	Name                    *string           `json:"name,omitempty"`
	Description             *string           `json:"description,omitempty"`
	EndDate                 *string           `json:"end_date,omitempty"`
	ClearEndDate            bool              `json:"clear_end_date,omitempty"`
	RequiresReferenceNumber *bool             `json:"requires_reference_number,omitempty"`
	Clients                 []ClientParam     `json:"clients,omitempty"`
	Assignments             []AssignmentParam `json:"assignments,omitempty"`
}

type SetTaskPausedParams struct {
	ID     string `json:"id"`
	Paused bool   `json:"paused"`
}

type DeleteTaskParams struct {
	ID string `json:"id"`
}

type GetOccurrencesParams struct {
	ID string `json:"id"`
}

type GetCompletionsParams struct {
	TaskID string `json:"task_id"`
}

type ChangeParam struct {
	ClientID        string `json:"client_id"`
	PeriodKey       string `json:"period_key"`
	Completed       bool   `json:"completed"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	ReferenceName   string `json:"reference_name,omitempty"`
}

type BulkUpdateCompletionsParams struct {
	TaskID  string        `json:"task_id"`
	Changes []ChangeParam `json:"changes"`
}

type GetCompletionRateParams struct {
	TaskID string `json:"task_id"`
}

type GetVisibleClientsParams struct {
	TaskID string `json:"task_id"`
}

type GetRecentActivityParams struct {
	TaskID   string   `json:"task_id,omitempty"`
	ClientID *string  `json:"client_id,omitempty"`
	Types    []string `json:"types,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

type TaskResponse struct {
	Task *task.RecurringTask `json:"task"`
}

type ListTasksResponse struct {
	Tasks []task.Summary `json:"tasks"`
}

type DeleteTaskResponse struct {
	Status string `json:"status"`
}

type OccurrencesResponse struct {
	TaskID  string   `json:"task_id"`
	Periods []string `json:"periods"`
}

type CompletionsResponse struct {
	TaskID  string                    `json:"task_id"`
	Records []ledger.CompletionRecord `json:"records"`
}

type BulkUpdateCompletionsResponse struct {
	Result *ledger.BulkUpdateResult `json:"result"`
}

type CompletionRateResponse struct {
	Report *ledger.RateReport `json:"report"`
}

type VisibleClientsResponse struct {
	TaskID  string        `json:"task_id"`
	Clients []task.Client `json:"clients"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      activity.Type `json:"type"`
	TaskID    string        `json:"task_id"`
	ClientID  *string       `json:"client_id,omitempty"`
	PeriodKey *string       `json:"period_key,omitempty"`
	Summary   string        `json:"summary"`
	Details   string        `json:"details,omitempty"`
}

type GetRecentActivityResponse struct {
	Activity []ActivityEntryResponse `json:"activity"`
}
