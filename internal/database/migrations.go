package database

import (
	"context"
	"database/sql"
	"fmt"
)

// columnLimitMessage is raised by the cap trigger and mapped to models.ErrColumnLimitReached
const columnLimitMessage = "column limit reached"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS columns (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL,
		key TEXT NOT NULL,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		UNIQUE (board_id, key),
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	)`,

	// Tasks reference their column by key (status), not by foreign key, so a
	// column deletion must reassign tasks before the column row goes away.
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL,
		status TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0 CHECK (position >= 0),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		assignee_id TEXT,
		start_date TEXT,
		due_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_board_status
		ON tasks(board_id, status, position)`,

	`CREATE INDEX IF NOT EXISTS idx_columns_board
		ON columns(board_id, position)`,

	// Server-side cap: the count-then-insert done by callers is not atomic,
	// so the insert itself is refused once a board holds 10 columns.
	fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_columns_cap
		BEFORE INSERT ON columns
		WHEN (SELECT COUNT(*) FROM columns WHERE board_id = NEW.board_id) >= 10
		BEGIN
			SELECT RAISE(ABORT, '%s');
		END`, columnLimitMessage),
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
