package task

import (
	"time"

	"github.com/cadencehq/cadence/internal/domain/schedule"
)

// Role is the viewer role supplied by the identity provider. It is treated
// as an opaque trusted input.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Client is one tracked client on a task's roster.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment maps a team member to the subset of clients they handle.
// A client may appear under zero, one, or several assignments; the mapping
// is deliberately non-exclusive.
type Assignment struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	ClientIDs []string `json:"client_ids"`
}

// RecurringTask is a recurring obligation tracked per client and period.
type RecurringTask struct {
	ID                      string        `json:"id"`
	TenantID                string        `json:"tenant_id"`
	Name                    string        `json:"name"`
	Description             string        `json:"description,omitempty"`
	Rule                    schedule.Rule `json:"rule"`
	RequiresReferenceNumber bool          `json:"requires_reference_number"`
	Clients                 []Client      `json:"clients"`
	Assignments             []Assignment  `json:"assignments,omitempty"`
	CreatedAt               time.Time     `json:"created_at"`
	ModifiedAt              time.Time     `json:"modified_at"`
}

// HasClient reports whether the roster contains the given client ID.
func (t *RecurringTask) HasClient(clientID string) bool {
	for _, c := range t.Clients {
		if c.ID == clientID {
			return true
		}
	}
	return false
}

// Summary is a lightweight task listing row.
type Summary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Pattern     schedule.Pattern `json:"pattern"`
	Paused      bool             `json:"paused"`
	ClientCount int              `json:"client_count"`
	CreatedAt   time.Time        `json:"created_at"`
}
