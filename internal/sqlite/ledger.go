package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository for SQLite
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Upsert writes a completion record. Re-marking an existing cell overwrites
// the completer, timestamp, and reference; last write wins.
func (r *LedgerRepository) Upsert(ctx context.Context, tenantID string, rec *ledger.CompletionRecord) error {
	query := `
		INSERT INTO completions (
			task_id, client_id, period_key, tenant_id,
			completed_by, completed_at, reference_number, reference_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id, client_id, period_key) DO UPDATE SET
			completed_by = excluded.completed_by,
			completed_at = excluded.completed_at,
			reference_number = excluded.reference_number,
			reference_name = excluded.reference_name
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.TaskID,
		rec.ClientID,
		rec.PeriodKey,
		tenantID,
		rec.CompletedBy,
		rec.CompletedAt,
		nullable(rec.ReferenceNumber),
		nullable(rec.ReferenceName),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to upsert completion: %w", err)
	}

	return nil
}

// Delete removes a completion record
func (r *LedgerRepository) Delete(ctx context.Context, tenantID, taskID, clientID, periodKey string) error {
	query := `
		DELETE FROM completions
		WHERE task_id = ? AND client_id = ? AND period_key = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, taskID, clientID, periodKey, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByTask returns all completion records for a task, ordered by period
// then client
func (r *LedgerRepository) ListByTask(ctx context.Context, tenantID, taskID string) ([]ledger.CompletionRecord, error) {
	query := `
		SELECT
			task_id, tenant_id, client_id, period_key,
			completed_by, completed_at, reference_number, reference_name
		FROM completions
		WHERE task_id = ? AND tenant_id = ?
		ORDER BY period_key ASC, client_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	var records []ledger.CompletionRecord
	for rows.Next() {
		var rec ledger.CompletionRecord
		var refNumber, refName sql.NullString
		err := rows.Scan(
			&rec.TaskID,
			&rec.TenantID,
			&rec.ClientID,
			&rec.PeriodKey,
			&rec.CompletedBy,
			&rec.CompletedAt,
			&refNumber,
			&refName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		rec.ReferenceNumber = refNumber.String
		rec.ReferenceName = refName.String
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion rows: %w", err)
	}

	return records, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
