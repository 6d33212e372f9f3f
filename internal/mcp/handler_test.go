package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/transport"
	"github.com/stretchr/testify/require"
)

type taskStub struct {
	createFn      func(context.Context, string, task.CreateRequest) (*task.RecurringTask, error)
	getFn         func(context.Context, string, string) (*task.RecurringTask, error)
	listFn        func(context.Context, string) ([]task.Summary, error)
	updateFn      func(context.Context, string, task.UpdateRequest) (*task.RecurringTask, error)
	setPausedFn   func(context.Context, string, string, bool) (*task.RecurringTask, error)
	deleteFn      func(context.Context, string, string) error
	occurrencesFn func(context.Context, string, string, time.Time) ([]schedule.Period, error)
}

func (s taskStub) Create(ctx context.Context, tenantID string, req task.CreateRequest) (*task.RecurringTask, error) {
	return s.createFn(ctx, tenantID, req)
}
func (s taskStub) Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error) {
	return s.getFn(ctx, tenantID, id)
}
func (s taskStub) List(ctx context.Context, tenantID string) ([]task.Summary, error) {
	return s.listFn(ctx, tenantID)
}
func (s taskStub) Update(ctx context.Context, tenantID string, req task.UpdateRequest) (*task.RecurringTask, error) {
	return s.updateFn(ctx, tenantID, req)
}
func (s taskStub) SetPaused(ctx context.Context, tenantID, id string, paused bool) (*task.RecurringTask, error) {
	return s.setPausedFn(ctx, tenantID, id, paused)
}
func (s taskStub) Delete(ctx context.Context, tenantID, id string) error {
	return s.deleteFn(ctx, tenantID, id)
}
func (s taskStub) Occurrences(ctx context.Context, tenantID, id string, now time.Time) ([]schedule.Period, error) {
	return s.occurrencesFn(ctx, tenantID, id, now)
}

type ledgerStub struct {
	completionsFn func(context.Context, string, string, ledger.Viewer) ([]ledger.CompletionRecord, error)
	bulkUpdateFn  func(context.Context, string, ledger.BulkUpdateRequest) (*ledger.BulkUpdateResult, error)
	rateFn        func(context.Context, string, string, ledger.Viewer, time.Time) (*ledger.RateReport, error)
}

func (s ledgerStub) Completions(ctx context.Context, tenantID, taskID string, viewer ledger.Viewer) ([]ledger.CompletionRecord, error) {
	return s.completionsFn(ctx, tenantID, taskID, viewer)
}
func (s ledgerStub) BulkUpdate(ctx context.Context, tenantID string, req ledger.BulkUpdateRequest) (*ledger.BulkUpdateResult, error) {
	return s.bulkUpdateFn(ctx, tenantID, req)
}
func (s ledgerStub) CompletionRate(ctx context.Context, tenantID, taskID string, viewer ledger.Viewer, now time.Time) (*ledger.RateReport, error) {
	return s.rateFn(ctx, tenantID, taskID, viewer, now)
}

type activityStub struct {
	listFn func(context.Context, string, activity.ListOptions) ([]activity.Entry, error)
}

func (s activityStub) GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	return s.listFn(ctx, tenantID, opts)
}

var (
	adminViewer    = transport.Viewer{TenantID: "tenant1", UserID: "admin1", Role: task.RoleAdmin}
	employeeViewer = transport.Viewer{TenantID: "tenant1", UserID: "emp1", Role: task.RoleEmployee}
)

func happyHandler() *Handler {
	sample := &task.RecurringTask{
		ID:   "t1",
		Name: "VAT filing",
		Rule: schedule.Rule{
			Pattern: schedule.PatternMonthly,
			Start:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		Clients: []task.Client{{ID: "a", Name: "Acme"}},
	}
	return NewHandler(
		taskStub{
			createFn: func(_ context.Context, _ string, req task.CreateRequest) (*task.RecurringTask, error) {
				return &task.RecurringTask{ID: "t1", Name: req.Name, Rule: req.Rule, Clients: req.Clients}, nil
			},
			getFn: func(_ context.Context, _ string, id string) (*task.RecurringTask, error) {
				return sample, nil
			},
			listFn: func(_ context.Context, _ string) ([]task.Summary, error) {
				return []task.Summary{{ID: "t1", Name: "VAT filing", Pattern: schedule.PatternMonthly}}, nil
			},
			updateFn: func(_ context.Context, _ string, _ task.UpdateRequest) (*task.RecurringTask, error) {
				return sample, nil
			},
			setPausedFn: func(_ context.Context, _ string, _ string, _ bool) (*task.RecurringTask, error) {
				return sample, nil
			},
			deleteFn: func(_ context.Context, _ string, _ string) error { return nil },
			occurrencesFn: func(_ context.Context, _ string, _ string, _ time.Time) ([]schedule.Period, error) {
				return []schedule.Period{
					{Year: 2026, Month: time.January},
					{Year: 2026, Month: time.February},
				}, nil
			},
		},
		ledgerStub{
			completionsFn: func(_ context.Context, _ string, taskID string, _ ledger.Viewer) ([]ledger.CompletionRecord, error) {
				return []ledger.CompletionRecord{{TaskID: taskID, ClientID: "a", PeriodKey: "2026-01"}}, nil
			},
			bulkUpdateFn: func(_ context.Context, _ string, req ledger.BulkUpdateRequest) (*ledger.BulkUpdateResult, error) {
				return &ledger.BulkUpdateResult{Applied: len(req.Changes)}, nil
			},
			rateFn: func(_ context.Context, _ string, taskID string, _ ledger.Viewer, _ time.Time) (*ledger.RateReport, error) {
				return &ledger.RateReport{TaskID: taskID, Completed: 1, Tracked: 2, Rate: 0.5}, nil
			},
		},
		activityStub{listFn: func(_ context.Context, _ string, _ activity.ListOptions) ([]activity.Entry, error) {
			return []activity.Entry{{TaskID: "t1", Type: activity.TypeTaskCreated, Summary: "created"}}, nil
		}},
	)
}

func TestHandler_TaskCommands(t *testing.T) {
	ctx := context.Background()
	handler := happyHandler()

	result, err := handler.Handle(ctx, adminViewer, "create_task", mustJSON(t, CreateTaskParams{
		Name:      "VAT filing",
		Pattern:   "monthly",
		StartDate: "2026-01-01",
		Clients:   []ClientParam{{ID: "a", Name: "Acme"}},
	}))
	require.NoError(t, err)
	created, ok := result.(*TaskResponse)
	require.True(t, ok)
	require.Equal(t, "VAT filing", created.Task.Name)

	_, err = handler.Handle(ctx, adminViewer, "get_task", mustJSON(t, GetTaskParams{ID: "t1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, adminViewer, "list_tasks", nil)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, adminViewer, "update_task", mustJSON(t, UpdateTaskParams{ID: "t1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, adminViewer, "set_task_paused", mustJSON(t, SetTaskPausedParams{ID: "t1", Paused: true}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, adminViewer, "delete_task", mustJSON(t, DeleteTaskParams{ID: "t1"}))
	require.NoError(t, err)

	result, err = handler.Handle(ctx, adminViewer, "get_occurrences", mustJSON(t, GetOccurrencesParams{ID: "t1"}))
	require.NoError(t, err)
	occ, ok := result.(*OccurrencesResponse)
	require.True(t, ok)
	require.Equal(t, []string{"2026-01", "2026-02"}, occ.Periods)
}

func TestHandler_LedgerCommands(t *testing.T) {
	ctx := context.Background()
	handler := happyHandler()

	_, err := handler.Handle(ctx, employeeViewer, "get_completions", mustJSON(t, GetCompletionsParams{TaskID: "t1"}))
	require.NoError(t, err)

	result, err := handler.Handle(ctx, employeeViewer, "bulk_update_completions", mustJSON(t, BulkUpdateCompletionsParams{
		TaskID:  "t1",
		Changes: []ChangeParam{{ClientID: "a", PeriodKey: "2026-01", Completed: true}},
	}))
	require.NoError(t, err)
	bulk, ok := result.(*BulkUpdateCompletionsResponse)
	require.True(t, ok)
	require.Equal(t, 1, bulk.Result.Applied)

	_, err = handler.Handle(ctx, employeeViewer, "get_completion_rate", mustJSON(t, GetCompletionRateParams{TaskID: "t1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, employeeViewer, "get_visible_clients", mustJSON(t, GetVisibleClientsParams{TaskID: "t1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, adminViewer, "get_recent_activity", mustJSON(t, GetRecentActivityParams{TaskID: "t1"}))
	require.NoError(t, err)
}

func TestHandler_EmployeeCannotMutateTasks(t *testing.T) {
	ctx := context.Background()
	handler := happyHandler()

	for _, method := range []string{"create_task", "update_task", "set_task_paused", "delete_task"} {
		_, err := handler.Handle(ctx, employeeViewer, method, mustJSON(t, map[string]any{"id": "t1", "name": "x", "pattern": "monthly", "start_date": "2026-01-01"}))
		require.Error(t, err, "method %s should be gated", method)
		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		require.Equal(t, "UNAUTHORIZED", apiErr.Code)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(
		taskStub{
			getFn: func(_ context.Context, _ string, _ string) (*task.RecurringTask, error) {
				return nil, task.ErrTaskNotFound
			},
		},
		ledgerStub{},
		activityStub{},
	)

	_, err := handler.Handle(ctx, adminViewer, "get_task", mustJSON(t, GetTaskParams{ID: "ghost"}))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "TASK_NOT_FOUND", apiErr.Code)
}

func TestHandler_BadDateIsInvalidRule(t *testing.T) {
	ctx := context.Background()
	handler := happyHandler()

	_, err := handler.Handle(ctx, adminViewer, "create_task", mustJSON(t, CreateTaskParams{
		Name:      "Bad",
		Pattern:   "monthly",
		StartDate: "January 1st",
		Clients:   []ClientParam{{ID: "a", Name: "Acme"}},
	}))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "INVALID_RULE", apiErr.Code)
}

func TestHandler_UnknownMethod(t *testing.T) {
	ctx := context.Background()
	handler := happyHandler()

	_, err := handler.Handle(ctx, adminViewer, "no_such_method", nil)
	require.Error(t, err)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
