package activity

import "time"

// Type represents the kind of activity event
type Type string

const (
	TypeTaskCreated       Type = "task_created"
	TypeTaskUpdated       Type = "task_updated"
	TypeTaskPaused        Type = "task_paused"
	TypeTaskResumed       Type = "task_resumed"
	TypeTaskDeleted       Type = "task_deleted"
	TypeCompletionMarked  Type = "completion_marked"
	TypeCompletionCleared Type = "completion_cleared"
	TypeReminderIssued    Type = "reminder_issued"
)

// Entry represents an event in the activity log
type Entry struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	TaskID    string    `json:"task_id"`
	ClientID  *string   `json:"client_id,omitempty"`
	PeriodKey *string   `json:"period_key,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions provides filtering options for listing activity
type ListOptions struct {
	TaskID   string
	ClientID *string
	Types    []Type
	Limit    int
	Offset   int
}
