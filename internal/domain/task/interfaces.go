package task

import (
	"context"

	"github.com/cadencehq/cadence/internal/domain/activity"
)

// Repository provides persistence for recurring tasks.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *RecurringTask) error
	Get(ctx context.Context, tenantID, id string) (*RecurringTask, error)
	Update(ctx context.Context, tenantID string, t *RecurringTask) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string) ([]Summary, error)
}

// ActivityLogger records task lifecycle events on the activity trail.
type ActivityLogger interface {
	LogActivity(ctx context.Context, tenantID string, entry *activity.Entry) error
}
