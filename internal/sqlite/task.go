package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/repository"
)

// TaskRepository implements repository.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task with its client roster and assignments
func (r *TaskRepository) Create(ctx context.Context, tenantID string, t *task.RecurringTask) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (
			id, tenant_id, name, description, pattern, start_date, end_date,
			paused, requires_reference, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		t.ID,
		tenantID,
		t.Name,
		t.Description,
		string(t.Rule.Pattern),
		t.Rule.Start,
		endDate(t.Rule.End),
		t.Rule.Paused,
		t.RequiresReferenceNumber,
		t.CreatedAt,
		t.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := insertRoster(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a task by ID, including its roster and assignments
func (r *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error) {
	query := `
		SELECT
			id, tenant_id, name, description, pattern, start_date, end_date,
			paused, requires_reference, created_at, modified_at
		FROM tasks
		WHERE id = ? AND tenant_id = ?
	`

	var t task.RecurringTask
	var pattern string
	var description sql.NullString
	var end sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&t.ID,
		&t.TenantID,
		&t.Name,
		&description,
		&pattern,
		&t.Rule.Start,
		&end,
		&t.Rule.Paused,
		&t.RequiresReferenceNumber,
		&t.CreatedAt,
		&t.ModifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	t.Description = description.String
	t.Rule.Pattern = schedule.Pattern(pattern)
	if end.Valid {
		e := end.Time
		t.Rule.End = &e
	}

	if t.Clients, err = r.getClients(ctx, id); err != nil {
		return nil, err
	}
	if t.Assignments, err = r.getAssignments(ctx, id); err != nil {
		return nil, err
	}

	return &t, nil
}

// Update updates a task, replacing its roster and assignments
func (r *TaskRepository) Update(ctx context.Context, tenantID string, t *task.RecurringTask) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET name = ?, description = ?, pattern = ?, start_date = ?, end_date = ?,
		    paused = ?, requires_reference = ?, modified_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		t.Name,
		t.Description,
		string(t.Rule.Pattern),
		t.Rule.Start,
		endDate(t.Rule.End),
		t.Rule.Paused,
		t.RequiresReferenceNumber,
		t.ModifiedAt,
		t.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_clients WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignments WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := insertRoster(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete deletes a task; completion records and roster rows cascade
func (r *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM tasks WHERE id = ? AND tenant_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

// List returns task summaries for a tenant, newest first
func (r *TaskRepository) List(ctx context.Context, tenantID string) ([]task.Summary, error) {
	query := `
		SELECT
			t.id, t.name, t.pattern, t.paused, COUNT(c.client_id) as client_count, t.created_at
		FROM tasks t
		LEFT JOIN task_clients c ON c.task_id = t.id
		WHERE t.tenant_id = ?
		GROUP BY t.id, t.name, t.pattern, t.paused, t.created_at
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var summaries []task.Summary
	for rows.Next() {
		var s task.Summary
		var pattern string
		if err := rows.Scan(&s.ID, &s.Name, &pattern, &s.Paused, &s.ClientCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task summary: %w", err)
		}
		s.Pattern = schedule.Pattern(pattern)
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return summaries, nil
}

// Tenants returns the distinct tenant IDs that own at least one task
func (r *TaskRepository) Tenants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT tenant_id FROM tasks ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return tenants, nil
}

func (r *TaskRepository) getClients(ctx context.Context, taskID string) ([]task.Client, error) {
	query := `
		SELECT client_id, client_name
		FROM task_clients
		WHERE task_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	defer rows.Close()

	var clients []task.Client
	for rows.Next() {
		var c task.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	return clients, nil
}

func (r *TaskRepository) getAssignments(ctx context.Context, taskID string) ([]task.Assignment, error) {
	query := `
		SELECT user_id, user_name, client_id
		FROM task_assignments
		WHERE task_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	var assignments []task.Assignment
	index := make(map[string]int)
	for rows.Next() {
		var userID, userName, clientID string
		if err := rows.Scan(&userID, &userName, &clientID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		i, ok := index[userID]
		if !ok {
			i = len(assignments)
			index[userID] = i
			assignments = append(assignments, task.Assignment{UserID: userID, UserName: userName})
		}
		assignments[i].ClientIDs = append(assignments[i].ClientIDs, clientID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

func insertRoster(ctx context.Context, tx *sql.Tx, t *task.RecurringTask) error {
	clientQuery := `
		INSERT INTO task_clients (task_id, client_id, client_name, position)
		VALUES (?, ?, ?, ?)
	`
	for i, c := range t.Clients {
		if _, err := tx.ExecContext(ctx, clientQuery, t.ID, c.ID, c.Name, i); err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}
	}

	assignmentQuery := `
		INSERT INTO task_assignments (task_id, user_id, user_name, client_id, position)
		VALUES (?, ?, ?, ?, ?)
	`
	position := 0
	for _, a := range t.Assignments {
		for _, clientID := range a.ClientIDs {
			if _, err := tx.ExecContext(ctx, assignmentQuery, t.ID, a.UserID, a.UserName, clientID, position); err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
			position++
		}
	}

	return nil
}

func endDate(end *time.Time) interface{} {
	if end == nil {
		return nil
	}
	return *end
}
