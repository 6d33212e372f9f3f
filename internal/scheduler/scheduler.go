// Package scheduler runs the periodic overdue scan. The scan walks every
// tenant's unpaused tasks, finds roster clients with no completion record for
// the task's current period, and writes reminder entries to the activity
// trail. A dedup cache keeps a cell from being reminded about more than once
// per window.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/repository"
)

// ActivityLogger records issued reminders on the activity trail.
type ActivityLogger interface {
	LogActivity(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// Scanner performs the overdue scan and owns its cron schedule.
type Scanner struct {
	tasks    repository.TaskRepository
	records  repository.LedgerRepository
	activity ActivityLogger
	dedup    *DedupCache
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewScanner creates a scanner over the given repositories.
func NewScanner(
	tasks repository.TaskRepository,
	records repository.LedgerRepository,
	activityLog ActivityLogger,
	dedup *DedupCache,
	logger *slog.Logger,
) *Scanner {
	return &Scanner{
		tasks:    tasks,
		records:  records,
		activity: activityLog,
		dedup:    dedup,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules Scan every interval and starts the cron runner.
func (s *Scanner) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.Scan(context.Background(), time.Now()); err != nil {
			s.logger.Error("overdue scan failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule overdue scan: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron runner and waits for a running scan to finish.
func (s *Scanner) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Scan walks all tenants and records reminders for incomplete current
// periods. Per-task failures are logged and skipped so one bad task does not
// starve the rest of the scan.
func (s *Scanner) Scan(ctx context.Context, now time.Time) error {
	tenants, err := s.tasks.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	for _, tenantID := range tenants {
		summaries, err := s.tasks.List(ctx, tenantID)
		if err != nil {
			s.logger.Error("overdue scan: list failed", "tenant_id", tenantID, "error", err)
			continue
		}
		for _, summary := range summaries {
			if summary.Paused {
				continue
			}
			if err := s.scanTask(ctx, tenantID, summary.ID, now); err != nil {
				s.logger.Error("overdue scan: task failed",
					"tenant_id", tenantID, "task_id", summary.ID, "error", err)
			}
		}
	}
	return nil
}

func (s *Scanner) scanTask(ctx context.Context, tenantID, taskID string, now time.Time) error {
	t, err := s.tasks.Get(ctx, tenantID, taskID)
	if err != nil {
		return err
	}

	// The due period is the latest occurrence at or before now. A task whose
	// start date is still ahead has nothing due.
	periods := schedule.Occurrences(t.Rule, schedule.Window{Start: t.Rule.Start, End: now})
	if len(periods) == 0 {
		return nil
	}
	due := periods[len(periods)-1].Key()

	records, err := s.records.ListByTask(ctx, tenantID, taskID)
	if err != nil {
		return err
	}
	complete := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.PeriodKey == due {
			complete[rec.ClientID] = true
		}
	}

	for _, client := range t.Clients {
		if complete[client.ID] {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s|%s", tenantID, taskID, client.ID, due)
		if !s.dedup.ShouldNotify(key, now) {
			continue
		}

		clientID := client.ID
		periodKey := due
		entry := &activity.Entry{
			TenantID:  tenantID,
			TaskID:    taskID,
			ClientID:  &clientID,
			PeriodKey: &periodKey,
			Type:      activity.TypeReminderIssued,
			Summary:   fmt.Sprintf("%s is incomplete for %s in %s", t.Name, client.Name, due),
			CreatedAt: now,
		}
		if err := s.activity.LogActivity(ctx, tenantID, entry); err != nil {
			return fmt.Errorf("failed to log reminder: %w", err)
		}
		s.logger.Info("reminder issued",
			"tenant_id", tenantID,
			"task_id", taskID,
			"client_id", client.ID,
			"period_key", due,
		)
	}
	return nil
}
