package repository

import (
	"context"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/task"
)

// TaskRepository manages recurring task persistence
type TaskRepository interface {
	Create(ctx context.Context, tenantID string, t *task.RecurringTask) error
	Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error)
	Update(ctx context.Context, tenantID string, t *task.RecurringTask) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string) ([]task.Summary, error)
	Tenants(ctx context.Context) ([]string, error)
}

// LedgerRepository manages completion record persistence
type LedgerRepository interface {
	Upsert(ctx context.Context, tenantID string, rec *ledger.CompletionRecord) error
	Delete(ctx context.Context, tenantID, taskID, clientID, periodKey string) error
	ListByTask(ctx context.Context, tenantID, taskID string) ([]ledger.CompletionRecord, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
	List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}
