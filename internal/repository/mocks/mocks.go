package mocks

import (
	"context"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// TaskRepository is a mock for repository.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, tenantID string, t *task.RecurringTask) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*task.RecurringTask); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, tenantID string, t *task.RecurringTask) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *TaskRepository) List(ctx context.Context, tenantID string) ([]task.Summary, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]task.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Tenants(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LedgerRepository is a mock for repository.LedgerRepository.
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Upsert(ctx context.Context, tenantID string, rec *ledger.CompletionRecord) error {
	args := m.Called(ctx, tenantID, rec)
	return args.Error(0)
}

func (m *LedgerRepository) Delete(ctx context.Context, tenantID, taskID, clientID, periodKey string) error {
	args := m.Called(ctx, tenantID, taskID, clientID, periodKey)
	return args.Error(0)
}

func (m *LedgerRepository) ListByTask(ctx context.Context, tenantID, taskID string) ([]ledger.CompletionRecord, error) {
	args := m.Called(ctx, tenantID, taskID)
	if list, ok := args.Get(0).([]ledger.CompletionRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityLogger is a mock for the domain services' activity trail writer.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
