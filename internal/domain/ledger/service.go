package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/assignment"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/repository/errs"
)

// Service handles completion ledger operations.
type Service struct {
	records      Repository
	tasks        TaskRepository
	activities   ActivityLogger
	logger       *slog.Logger
	horizonYears int
}

// NewService creates a new ledger service.
func NewService(records Repository, tasks TaskRepository, activities ActivityLogger, logger *slog.Logger, horizonYears int) *Service {
	if horizonYears <= 0 {
		horizonYears = task.DefaultHorizonYears
	}
	return &Service{
		records:      records,
		tasks:        tasks,
		activities:   activities,
		logger:       logger,
		horizonYears: horizonYears,
	}
}

// Viewer identifies who is reading or writing. Role and user ID come from
// the identity layer and are trusted as-is.
type Viewer struct {
	UserID string
	Role   task.Role
}

// BulkUpdateRequest carries a batch of cell changes for one task.
type BulkUpdateRequest struct {
	TaskID  string
	Viewer  Viewer
	Changes []Change
}

// Completions returns the completion records for a task. Employees get only
// records on clients visible to them; the list is empty, not an error, when
// nothing is recorded.
func (s *Service) Completions(ctx context.Context, tenantID, taskID string, viewer Viewer) ([]CompletionRecord, error) {
	t, err := s.getTask(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByTask(ctx, tenantID, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	if viewer.Role != task.RoleEmployee {
		return records, nil
	}

	visible := assignment.VisibleSet(viewer.Role, viewer.UserID, t.Clients, t.Assignments)
	filtered := make([]CompletionRecord, 0, len(records))
	for _, rec := range records {
		if visible[rec.ClientID] {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// BulkUpdate applies a batch of cell changes. Each change is validated and
// applied independently: an invalid cell is rejected without blocking its
// siblings. Completed changes upsert the record keyed by
// (task, client, period); uncompleted changes delete it, a no-op when
// absent, so replaying the same batch is idempotent.
//
// Writes are not transactionally linked. A storage failure aborts the
// remainder of the batch with a single error and leaves already-applied
// cells in place; callers re-read via Completions rather than assuming
// rollback.
func (s *Service) BulkUpdate(ctx context.Context, tenantID string, req BulkUpdateRequest) (*BulkUpdateResult, error) {
	if req.TaskID == "" || len(req.Changes) == 0 {
		return nil, fmt.Errorf("%w: task id and changes are required", ErrInvalidInput)
	}

	t, err := s.getTask(ctx, tenantID, req.TaskID)
	if err != nil {
		return nil, err
	}

	var visible map[string]bool
	if req.Viewer.Role == task.RoleEmployee {
		visible = assignment.VisibleSet(req.Viewer.Role, req.Viewer.UserID, t.Clients, t.Assignments)
	}

	now := time.Now()
	result := &BulkUpdateResult{}
	for _, change := range req.Changes {
		if reason := s.validateChange(t, visible, change); reason != "" {
			result.Rejected = append(result.Rejected, RejectedChange{
				ClientID:  change.ClientID,
				PeriodKey: change.PeriodKey,
				Reason:    reason,
			})
			continue
		}

		if change.Completed {
			rec := &CompletionRecord{
				TaskID:          req.TaskID,
				TenantID:        tenantID,
				ClientID:        change.ClientID,
				PeriodKey:       change.PeriodKey,
				CompletedBy:     req.Viewer.UserID,
				CompletedAt:     now,
				ReferenceNumber: change.ReferenceNumber,
				ReferenceName:   change.ReferenceName,
			}
			if err := s.records.Upsert(ctx, tenantID, rec); err != nil {
				return nil, fmt.Errorf("upserting completion %s/%s: %w", change.ClientID, change.PeriodKey, err)
			}
			result.Applied++
			s.logToggle(ctx, tenantID, req.TaskID, change, activity.TypeCompletionMarked, req.Viewer.UserID)
			continue
		}

		err := s.records.Delete(ctx, tenantID, req.TaskID, change.ClientID, change.PeriodKey)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue // already incomplete
			}
			return nil, fmt.Errorf("deleting completion %s/%s: %w", change.ClientID, change.PeriodKey, err)
		}
		result.Removed++
		s.logToggle(ctx, tenantID, req.TaskID, change, activity.TypeCompletionCleared, req.Viewer.UserID)
	}

	return result, nil
}

// CompletionRate derives the completion rate for a task as of now.
// Admin and manager viewers get the task-wide rate; employees get the rate
// over their visible clients, computed with the identical filter used for
// edit visibility.
func (s *Service) CompletionRate(ctx context.Context, tenantID, taskID string, viewer Viewer, now time.Time) (*RateReport, error) {
	t, err := s.getTask(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	clients := assignment.VisibleClients(viewer.Role, viewer.UserID, t.Clients, t.Assignments)

	window := schedule.WindowUntil(t.Rule.Start, now, s.horizonYears)
	tracked := make(map[string]bool)
	for _, p := range schedule.Occurrences(t.Rule, window) {
		if !p.IsFuture(now) {
			tracked[p.Key()] = true
		}
	}

	clientSet := make(map[string]bool, len(clients))
	for _, c := range clients {
		clientSet[c.ID] = true
	}

	records, err := s.records.ListByTask(ctx, tenantID, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}

	completed := 0
	for _, rec := range records {
		if tracked[rec.PeriodKey] && clientSet[rec.ClientID] {
			completed++
		}
	}

	report := &RateReport{
		TaskID:        taskID,
		Completed:     completed,
		Tracked:       len(tracked) * len(clients),
		CurrentPeriod: schedule.PeriodOf(now, t.Rule.Pattern.Granularity()).Key(),
	}
	if report.Tracked > 0 {
		report.Rate = float64(report.Completed) / float64(report.Tracked)
	}
	return report, nil
}

func (s *Service) validateChange(t *task.RecurringTask, visible map[string]bool, change Change) string {
	if change.ClientID == "" {
		return ErrUnknownClient.Error()
	}
	if !t.HasClient(change.ClientID) {
		return ErrUnknownClient.Error()
	}
	if visible != nil && !visible[change.ClientID] {
		return ErrNotVisible.Error()
	}
	if _, err := schedule.ParsePeriodKey(change.PeriodKey); err != nil {
		return err.Error()
	}
	if change.Completed && t.RequiresReferenceNumber {
		if err := ValidateReference(change.ReferenceNumber, change.ReferenceName); err != nil {
			return err.Error()
		}
	}
	return ""
}

func (s *Service) getTask(ctx context.Context, tenantID, taskID string) (*task.RecurringTask, error) {
	t, err := s.tasks.Get(ctx, tenantID, taskID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	return t, nil
}

func (s *Service) logToggle(ctx context.Context, tenantID, taskID string, change Change, entryType activity.Type, userID string) {
	if s.activities == nil {
		return
	}
	clientID := change.ClientID
	periodKey := change.PeriodKey
	verb := "marked"
	if entryType == activity.TypeCompletionCleared {
		verb = "cleared"
	}
	err := s.activities.LogActivity(ctx, tenantID, &activity.Entry{
		TaskID:    taskID,
		ClientID:  &clientID,
		PeriodKey: &periodKey,
		Type:      entryType,
		Summary:   fmt.Sprintf("%s %s for %s by %s", verb, periodKey, clientID, userID),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "task_id", taskID, "type", entryType, "error", err)
	}
}
