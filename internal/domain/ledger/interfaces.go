package ledger

import (
	"context"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/task"
)

// Repository provides persistence for completion records.
type Repository interface {
	Upsert(ctx context.Context, tenantID string, rec *CompletionRecord) error
	Delete(ctx context.Context, tenantID, taskID, clientID, periodKey string) error
	ListByTask(ctx context.Context, tenantID, taskID string) ([]CompletionRecord, error)
}

// TaskRepository loads the owning task for validation and the period axis.
type TaskRepository interface {
	Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error)
}

// ActivityLogger records completion toggles on the activity trail.
type ActivityLogger interface {
	LogActivity(ctx context.Context, tenantID string, entry *activity.Entry) error
}
