package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations are run from the embedded migrations package
func (db *DB) RunMigrations() error {
	migration := `
-- Recurring tasks
CREATE TABLE tasks (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    pattern TEXT NOT NULL CHECK(pattern IN ('daily', 'weekly', 'monthly', 'quarterly', 'half_yearly', 'yearly')),
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP,
    paused INTEGER NOT NULL DEFAULT 0,
    requires_reference INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    modified_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_tasks ON tasks(tenant_id);

-- Client roster per task, ordered by position
CREATE TABLE task_clients (
    task_id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    client_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (task_id, client_id),
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

-- Team member to client mapping, non-exclusive
CREATE TABLE task_assignments (
    task_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_name TEXT NOT NULL,
    client_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (task_id, user_id, client_id),
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

-- Completion ledger: presence of a row means the cell is complete
CREATE TABLE completions (
    task_id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    period_key TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    completed_by TEXT NOT NULL,
    completed_at TIMESTAMP NOT NULL,
    reference_number TEXT,
    reference_name TEXT,
    PRIMARY KEY (task_id, client_id, period_key),
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);
CREATE INDEX idx_tenant_completions ON completions(tenant_id);

-- Activity log
CREATE TABLE activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    client_id TEXT,
    period_key TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_activity ON activity_log(tenant_id);
CREATE INDEX idx_task_activity ON activity_log(task_id);
CREATE INDEX idx_activity_created_at ON activity_log(created_at);

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('admin', 'manager', 'employee')),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_tenant_keys ON api_keys(tenant_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
