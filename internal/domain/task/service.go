package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/repository/errs"
	"github.com/google/uuid"
)

// DefaultHorizonYears bounds occurrence generation for rules without an end
// date. Multi-year so the grid can page forward, finite so it stays
// renderable.
const DefaultHorizonYears = 3

// Service handles recurring task operations.
type Service struct {
	repo         Repository
	activities   ActivityLogger
	logger       *slog.Logger
	horizonYears int
}

// NewService creates a new task service. horizonYears <= 0 falls back to
// DefaultHorizonYears.
func NewService(repo Repository, activities ActivityLogger, logger *slog.Logger, horizonYears int) *Service {
	if horizonYears <= 0 {
		horizonYears = DefaultHorizonYears
	}
	return &Service{
		repo:         repo,
		activities:   activities,
		logger:       logger,
		horizonYears: horizonYears,
	}
}

// CreateRequest defines task creation inputs.
type CreateRequest struct {
	Name                    string
	Description             string
	Rule                    schedule.Rule
	RequiresReferenceNumber bool
	Clients                 []Client
	Assignments             []Assignment
}

// UpdateRequest defines task update inputs. Nil fields are left unchanged;
// ClearEnd removes the end date.
type UpdateRequest struct {
	ID                      string
	Name                    *string
	Description             *string
	End                     *time.Time
	ClearEnd                bool
	RequiresReferenceNumber *bool
	Clients                 []Client
	Assignments             []Assignment
}

// Create validates and persists a new recurring task.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*RecurringTask, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := req.Rule.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoster(req.Clients, req.Assignments); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &RecurringTask{
		ID:                      uuid.NewString(),
		TenantID:                tenantID,
		Name:                    req.Name,
		Description:             req.Description,
		Rule:                    req.Rule,
		RequiresReferenceNumber: req.RequiresReferenceNumber,
		Clients:                 req.Clients,
		Assignments:             req.Assignments,
		CreatedAt:               now,
		ModifiedAt:              now,
	}

	if err := s.repo.Create(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.log(ctx, tenantID, &activity.Entry{
		TaskID:  t.ID,
		Type:    activity.TypeTaskCreated,
		Summary: fmt.Sprintf("created task %q", t.Name),
	})

	return t, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*RecurringTask, error) {
	t, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns task summaries for a tenant.
func (s *Service) List(ctx context.Context, tenantID string) ([]Summary, error) {
	return s.repo.List(ctx, tenantID)
}

// Update applies partial changes to a task. Rule edits are re-validated so
// an end date before the start date is rejected here, never at generation
// time.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*RecurringTask, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.ClearEnd {
		updated.Rule.End = nil
	} else if req.End != nil {
		end := *req.End
		updated.Rule.End = &end
	}
	if req.RequiresReferenceNumber != nil {
		updated.RequiresReferenceNumber = *req.RequiresReferenceNumber
	}
	if req.Clients != nil {
		updated.Clients = req.Clients
	}
	if req.Assignments != nil {
		updated.Assignments = req.Assignments
	}

	if err := updated.Rule.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoster(updated.Clients, updated.Assignments); err != nil {
		return nil, err
	}
	updated.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.log(ctx, tenantID, &activity.Entry{
		TaskID:  updated.ID,
		Type:    activity.TypeTaskUpdated,
		Summary: fmt.Sprintf("updated task %q", updated.Name),
	})

	return &updated, nil
}

// SetPaused pauses or resumes occurrence generation for a task.
func (s *Service) SetPaused(ctx context.Context, tenantID, id string, paused bool) (*RecurringTask, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Rule.Paused == paused {
		return current, nil
	}

	updated := *current
	updated.Rule.Paused = paused
	updated.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	entryType := activity.TypeTaskPaused
	verb := "paused"
	if !paused {
		entryType = activity.TypeTaskResumed
		verb = "resumed"
	}
	s.log(ctx, tenantID, &activity.Entry{
		TaskID:  updated.ID,
		Type:    entryType,
		Summary: fmt.Sprintf("%s task %q", verb, updated.Name),
	})

	return &updated, nil
}

// Delete removes a task and, via the storage layer, its completion records.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}

	s.log(ctx, tenantID, &activity.Entry{
		TaskID:  id,
		Type:    activity.TypeTaskDeleted,
		Summary: fmt.Sprintf("deleted task %q", t.Name),
	})
	return nil
}

// Occurrences returns the period axis for a task as of now. Unbounded rules
// are clamped by the forward horizon. A paused rule keeps its already
// reachable periods (through the current one) but generates nothing further.
func (s *Service) Occurrences(ctx context.Context, tenantID, id string, now time.Time) ([]schedule.Period, error) {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.occurrences(t, now), nil
}

func (s *Service) occurrences(t *RecurringTask, now time.Time) []schedule.Period {
	window := schedule.WindowUntil(t.Rule.Start, now, s.horizonYears)
	periods := schedule.Occurrences(t.Rule, window)
	if !t.Rule.Paused {
		return periods
	}

	// Paused: keep history and the current period, drop future ones.
	kept := periods[:0]
	for _, p := range periods {
		if !p.IsFuture(now) {
			kept = append(kept, p)
		}
	}
	return kept
}

func (s *Service) log(ctx context.Context, tenantID string, entry *activity.Entry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, tenantID, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "task_id", entry.TaskID, "type", entry.Type, "error", err)
	}
}

func validateRoster(clients []Client, assignments []Assignment) error {
	seen := make(map[string]bool, len(clients))
	for _, c := range clients {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: client id is required", ErrInvalidInput)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate client %q", ErrInvalidInput, c.ID)
		}
		seen[c.ID] = true
	}

	for _, a := range assignments {
		if strings.TrimSpace(a.UserID) == "" {
			return fmt.Errorf("%w: assignment user id is required", ErrInvalidInput)
		}
		for _, clientID := range a.ClientIDs {
			if !seen[clientID] {
				return fmt.Errorf("%w: client %q in assignment for user %q", ErrUnknownAssignmentClient, clientID, a.UserID)
			}
		}
	}
	return nil
}
