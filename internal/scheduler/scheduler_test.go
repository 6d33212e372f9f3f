package scheduler_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/repository/mocks"
	"github.com/cadencehq/cadence/internal/scheduler"
)

var scanNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func monthlyTask() *task.RecurringTask {
	return &task.RecurringTask{
		ID:       "task1",
		TenantID: "t1",
		Name:     "Monthly VAT filing",
		Rule: schedule.Rule{
			Pattern: schedule.PatternMonthly,
			Start:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Clients: []task.Client{
			{ID: "a", Name: "Acme"},
			{ID: "b", Name: "Globex"},
		},
	}
}

func newScanner(tasks *mocks.TaskRepository, records *mocks.LedgerRepository, activities *mocks.ActivityLogger, window time.Duration) *scheduler.Scanner {
	logger := slog.New(slog.DiscardHandler)
	return scheduler.NewScanner(tasks, records, activities, scheduler.NewDedupCache(window), logger)
}

func TestScan_RemindsIncompleteCellsOnce(t *testing.T) {
	tasks := new(mocks.TaskRepository)
	records := new(mocks.LedgerRepository)
	activities := new(mocks.ActivityLogger)

	tasks.On("Tenants", mock.Anything).Return([]string{"t1"}, nil)
	tasks.On("List", mock.Anything, "t1").Return([]task.Summary{{ID: "task1"}}, nil)
	tasks.On("Get", mock.Anything, "t1", "task1").Return(monthlyTask(), nil)
	records.On("ListByTask", mock.Anything, "t1", "task1").Return([]ledger.CompletionRecord{
		{TaskID: "task1", ClientID: "a", PeriodKey: "2026-03"},
		{TaskID: "task1", ClientID: "b", PeriodKey: "2026-02"},
	}, nil)
	activities.On("LogActivity", mock.Anything, "t1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeReminderIssued &&
			e.TaskID == "task1" &&
			*e.ClientID == "b" &&
			*e.PeriodKey == "2026-03"
	})).Return(nil)

	sc := newScanner(tasks, records, activities, 24*time.Hour)

	require.NoError(t, sc.Scan(context.Background(), scanNow))
	activities.AssertNumberOfCalls(t, "LogActivity", 1)

	// A second pass inside the dedup window stays quiet.
	require.NoError(t, sc.Scan(context.Background(), scanNow.Add(time.Hour)))
	activities.AssertNumberOfCalls(t, "LogActivity", 1)
}

func TestScan_ReissuesAfterDedupWindow(t *testing.T) {
	tasks := new(mocks.TaskRepository)
	records := new(mocks.LedgerRepository)
	activities := new(mocks.ActivityLogger)

	tasks.On("Tenants", mock.Anything).Return([]string{"t1"}, nil)
	tasks.On("List", mock.Anything, "t1").Return([]task.Summary{{ID: "task1"}}, nil)
	tasks.On("Get", mock.Anything, "t1", "task1").Return(monthlyTask(), nil)
	records.On("ListByTask", mock.Anything, "t1", "task1").Return([]ledger.CompletionRecord(nil), nil)
	activities.On("LogActivity", mock.Anything, "t1", mock.Anything).Return(nil)

	sc := newScanner(tasks, records, activities, time.Hour)

	require.NoError(t, sc.Scan(context.Background(), scanNow))
	activities.AssertNumberOfCalls(t, "LogActivity", 2)

	require.NoError(t, sc.Scan(context.Background(), scanNow.Add(2*time.Hour)))
	activities.AssertNumberOfCalls(t, "LogActivity", 4)
}

func TestScan_SkipsPausedTasks(t *testing.T) {
	tasks := new(mocks.TaskRepository)
	records := new(mocks.LedgerRepository)
	activities := new(mocks.ActivityLogger)

	tasks.On("Tenants", mock.Anything).Return([]string{"t1"}, nil)
	tasks.On("List", mock.Anything, "t1").Return([]task.Summary{{ID: "task1", Paused: true}}, nil)

	sc := newScanner(tasks, records, activities, time.Hour)

	require.NoError(t, sc.Scan(context.Background(), scanNow))
	tasks.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	activities.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_NothingDueBeforeStart(t *testing.T) {
	tasks := new(mocks.TaskRepository)
	records := new(mocks.LedgerRepository)
	activities := new(mocks.ActivityLogger)

	future := monthlyTask()
	future.Rule.Start = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tasks.On("Tenants", mock.Anything).Return([]string{"t1"}, nil)
	tasks.On("List", mock.Anything, "t1").Return([]task.Summary{{ID: "task1"}}, nil)
	tasks.On("Get", mock.Anything, "t1", "task1").Return(future, nil)

	sc := newScanner(tasks, records, activities, time.Hour)

	require.NoError(t, sc.Scan(context.Background(), scanNow))
	records.AssertNotCalled(t, "ListByTask", mock.Anything, mock.Anything, mock.Anything)
	activities.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_TenantFailureDoesNotAbortOthers(t *testing.T) {
	tasks := new(mocks.TaskRepository)
	records := new(mocks.LedgerRepository)
	activities := new(mocks.ActivityLogger)

	tasks.On("Tenants", mock.Anything).Return([]string{"bad", "t1"}, nil)
	tasks.On("List", mock.Anything, "bad").Return(nil, context.DeadlineExceeded)
	tasks.On("List", mock.Anything, "t1").Return([]task.Summary{{ID: "task1"}}, nil)
	tasks.On("Get", mock.Anything, "t1", "task1").Return(monthlyTask(), nil)
	records.On("ListByTask", mock.Anything, "t1", "task1").Return([]ledger.CompletionRecord(nil), nil)
	activities.On("LogActivity", mock.Anything, "t1", mock.Anything).Return(nil)

	sc := newScanner(tasks, records, activities, time.Hour)

	require.NoError(t, sc.Scan(context.Background(), scanNow))
	activities.AssertNumberOfCalls(t, "LogActivity", 2)
}
