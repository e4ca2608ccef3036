package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/thenoetrevino/opsboard/internal/database"
	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const TestAppKey ContextKey = "testApp"

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestBoard creates a test board with the default columns (inbox, todo, doing, done)
func CreateTestBoard(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	boardID := types.NewID()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO boards (id, client_id, name, created_at) VALUES (?, ?, ?, ?)",
		boardID, "client-1", name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}

	for _, meta := range models.DefaultColumns {
		CreateTestColumn(t, db, boardID, meta.Key)
	}

	return boardID
}

// CreateTestColumn appends a column with the given key and returns its ID
func CreateTestColumn(t *testing.T, db *sql.DB, boardID, key string) string {
	t.Helper()
	var position int
	err := db.QueryRowContext(context.Background(),
		"SELECT COALESCE(MAX(position), -1) + 1 FROM columns WHERE board_id = ?", boardID).Scan(&position)
	if err != nil {
		t.Fatalf("Failed to get next column position: %v", err)
	}

	columnID := types.NewID()
	_, err = db.ExecContext(context.Background(),
		"INSERT INTO columns (id, board_id, key, name, position) VALUES (?, ?, ?, ?, ?)",
		columnID, boardID, key, key, position)
	if err != nil {
		t.Fatalf("Failed to create test column: %v", err)
	}
	return columnID
}

// CreateTestTask appends a task to the status group and returns its ID
func CreateTestTask(t *testing.T, db *sql.DB, boardID, status, title string) string {
	t.Helper()
	var position int
	err := db.QueryRowContext(context.Background(),
		"SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE board_id = ? AND status = ?",
		boardID, status).Scan(&position)
	if err != nil {
		t.Fatalf("Failed to get max position: %v", err)
	}

	return CreateTestTaskAt(t, db, boardID, status, title, position)
}

// CreateTestTaskAt inserts a task with an explicit position, duplicates included
func CreateTestTaskAt(t *testing.T, db *sql.DB, boardID, status, title string, position int) string {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	taskID := types.NewID()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO tasks (id, board_id, status, position, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		taskID, boardID, status, position, title, now, now)
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return taskID
}

// ColumnIDByKey looks up a column of the board by its key
func ColumnIDByKey(t *testing.T, db *sql.DB, boardID, key string) string {
	t.Helper()
	var id string
	err := db.QueryRowContext(context.Background(),
		"SELECT id FROM columns WHERE board_id = ? AND key = ?", boardID, key).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to find column %s: %v", key, err)
	}
	return id
}

// TaskPlacement returns the stored status and position of a task
func TaskPlacement(t *testing.T, db *sql.DB, taskID string) (string, int) {
	t.Helper()
	var (
		status   string
		position int
	)
	err := db.QueryRowContext(context.Background(),
		"SELECT status, position FROM tasks WHERE id = ?", taskID).Scan(&status, &position)
	if err != nil {
		t.Fatalf("Failed to read task %s: %v", taskID, err)
	}
	return status, position
}
