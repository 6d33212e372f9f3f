package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/repository"
)

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log writes an activity entry
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (
			tenant_id, task_id, client_id, period_key, activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		tenantID,
		entry.TaskID,
		entry.ClientID,
		entry.PeriodKey,
		string(entry.Type),
		entry.Summary,
		nullable(entry.Details),
		entry.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity id: %w", err)
	}
	entry.ID = id

	return nil
}

// List returns activity entries matching the given options, newest first
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, tenant_id, task_id, client_id, period_key, activity_type, summary, details, created_at
		FROM activity_log
		WHERE tenant_id = ?
	`

	args := []interface{}{tenantID}

	if opts.TaskID != "" {
		query += " AND task_id = ?"
		args = append(args, opts.TaskID)
	}

	if opts.ClientID != nil {
		query += " AND client_id = ?"
		args = append(args, *opts.ClientID)
	}

	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, typ := range opts.Types {
			placeholders[i] = "?"
			args = append(args, string(typ))
		}
		query += fmt.Sprintf(" AND activity_type IN (%s)", strings.Join(placeholders, ","))
	}

	query += " ORDER BY id DESC"

	// SQLite accepts OFFSET only after LIMIT; -1 means no limit.
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}

	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var details sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.TaskID,
			&entry.ClientID,
			&entry.PeriodKey,
			&entry.Type,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.Details = details.String
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
