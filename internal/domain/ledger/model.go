// Package ledger implements the completion ledger: a sparse record store
// keyed by (task, client, period). Absence of a record means incomplete;
// unchecking a cell deletes its record rather than storing an explicit
// false.
package ledger

import "time"

// CompletionRecord marks one (task, client, period) cell complete.
type CompletionRecord struct {
	TaskID          string    `json:"task_id"`
	TenantID        string    `json:"tenant_id"`
	ClientID        string    `json:"client_id"`
	PeriodKey       string    `json:"period_key"`
	CompletedBy     string    `json:"completed_by"`
	CompletedAt     time.Time `json:"completed_at"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	ReferenceName   string    `json:"reference_name,omitempty"`
}

// Change is one cell mutation inside a bulk update. Completed=false requests
// deletion of the record (a no-op when absent).
type Change struct {
	ClientID        string `json:"client_id"`
	PeriodKey       string `json:"period_key"`
	Completed       bool   `json:"completed"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	ReferenceName   string `json:"reference_name,omitempty"`
}

// RejectedChange reports a change that failed per-item validation. The rest
// of the batch still applies.
type RejectedChange struct {
	ClientID  string `json:"client_id"`
	PeriodKey string `json:"period_key"`
	Reason    string `json:"reason"`
}

// BulkUpdateResult summarizes a bulk update: cells written, cells cleared,
// and cells rejected with reasons.
type BulkUpdateResult struct {
	Applied  int              `json:"applied"`
	Removed  int              `json:"removed"`
	Rejected []RejectedChange `json:"rejected,omitempty"`
}

// RateReport is the read-side completion rate for a task. Future periods are
// excluded from both numerator and denominator; a zero denominator yields a
// zero rate by convention.
type RateReport struct {
	TaskID        string  `json:"task_id"`
	Completed     int     `json:"completed"`
	Tracked       int     `json:"tracked"`
	Rate          float64 `json:"rate"`
	CurrentPeriod string  `json:"current_period"`
}
