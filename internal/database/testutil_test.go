package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to init test database: %v", err)
	}
	return db
}

// createTestBoard creates a board with the default columns through the repository
func createTestBoard(t *testing.T, repo *Repository, name string) *models.Board {
	t.Helper()
	board, err := repo.CreateBoard(context.Background(), "client-1", name)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	return board
}

// createTestTask creates a task in the status group through the repository
func createTestTask(t *testing.T, repo *Repository, boardID, status, title string) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), &models.Task{
		BoardID: boardID,
		Status:  status,
		Title:   title,
	})
	if err != nil {
		t.Fatalf("Failed to create task %q: %v", title, err)
	}
	return task
}

func columnKeys(columns []*models.Column) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	return keys
}

// countColumns returns how many columns the board has
func countColumns(ctx context.Context, repo *Repository, boardID string) (int, error) {
	var n int
	err := repo.ColumnRepo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE board_id = ?`, boardID).Scan(&n)
	return n, err
}

// countTasks returns how many tasks of the board carry the status
func countTasks(ctx context.Context, repo *Repository, boardID, status string) (int, error) {
	var n int
	err := repo.TaskRepo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE board_id = ? AND status = ?`, boardID, status).Scan(&n)
	return n, err
}
