package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/thenoetrevino/opsboard/internal/models"
)

func TestCreateColumnAppends(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	board := createTestBoard(t, repo, "Board")

	col, err := repo.CreateColumn(ctx, board.ID, models.ColumnMetadata{
		Key: "review", Name: "Review", Color: "#7D56F4",
	})
	if err != nil {
		t.Fatalf("Failed to create column: %v", err)
	}
	if col.Position != 4 {
		t.Errorf("Expected new column at position 4, got %d", col.Position)
	}
	if col.BoardID != board.ID {
		t.Errorf("Expected board %s, got %s", board.ID, col.BoardID)
	}

	got, err := repo.GetColumnByID(ctx, col.ID)
	if err != nil {
		t.Fatalf("Failed to get column: %v", err)
	}
	if got.Key != "review" || got.Color != "#7D56F4" {
		t.Errorf("Unexpected column: %+v", got)
	}
}

func TestCreateColumnUnknownBoard(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)

	_, err := repo.CreateColumn(context.Background(), "missing", models.ColumnMetadata{Key: "x", Name: "X"})
	if !errors.Is(err, models.ErrBoardNotFound) {
		t.Errorf("Expected ErrBoardNotFound, got %v", err)
	}
}

func TestCreateColumnDuplicateKey(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)

	board := createTestBoard(t, repo, "Board")

	_, err := repo.CreateColumn(context.Background(), board.ID, models.ColumnMetadata{Key: "todo", Name: "Again"})
	if !errors.Is(err, models.ErrDuplicateColumnKey) {
		t.Errorf("Expected ErrDuplicateColumnKey, got %v", err)
	}
}

// The trigger refuses the 11th column even when callers skip the count check.
func TestColumnCapTrigger(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	board := createTestBoard(t, repo, "Board")

	for i := len(models.DefaultColumns); i < models.MaxColumnsPerBoard; i++ {
		key := fmt.Sprintf("extra%d", i)
		if _, err := repo.CreateColumn(ctx, board.ID, models.ColumnMetadata{Key: key, Name: key}); err != nil {
			t.Fatalf("Failed to create column %d: %v", i, err)
		}
	}

	n, err := countColumns(ctx, repo, board.ID)
	if err != nil {
		t.Fatalf("Failed to count columns: %v", err)
	}
	if n != models.MaxColumnsPerBoard {
		t.Fatalf("Expected %d columns, got %d", models.MaxColumnsPerBoard, n)
	}

	_, err = repo.CreateColumn(ctx, board.ID, models.ColumnMetadata{Key: "eleventh", Name: "Eleventh"})
	if !errors.Is(err, models.ErrColumnLimitReached) {
		t.Fatalf("Expected ErrColumnLimitReached, got %v", err)
	}

	n, _ = countColumns(ctx, repo, board.ID)
	if n != models.MaxColumnsPerBoard {
		t.Errorf("Cap violated: %d columns", n)
	}

	// Other boards are unaffected
	other := createTestBoard(t, repo, "Other")
	if _, err := repo.CreateColumn(ctx, other.ID, models.ColumnMetadata{Key: "review", Name: "Review"}); err != nil {
		t.Errorf("Expected other board to accept columns, got %v", err)
	}
}

func TestUpdateColumnKeepsKey(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	board := createTestBoard(t, repo, "Board")
	columns, _ := repo.GetColumns(ctx, board.ID)

	updated, err := repo.UpdateColumn(ctx, columns[1].ID, models.ColumnMetadata{
		Key: "ignored", Name: "Backlog", Icon: "list", Color: "#000000",
	})
	if err != nil {
		t.Fatalf("Failed to update column: %v", err)
	}
	if updated.Key != "todo" {
		t.Errorf("Key must not change, got %s", updated.Key)
	}
	if updated.Name != "Backlog" || updated.Icon != "list" || updated.Color != "#000000" {
		t.Errorf("Metadata not updated: %+v", updated)
	}

	if _, err := repo.UpdateColumn(ctx, "missing", models.ColumnMetadata{Name: "x"}); !errors.Is(err, models.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestDeleteColumnMovesRemainingTasksToFallback(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	board := createTestBoard(t, repo, "Board")
	other := createTestBoard(t, repo, "Other")
	columns, _ := repo.GetColumns(ctx, board.ID)

	// Created after the caller's reassignment and before the delete
	straggler := createTestTask(t, repo, board.ID, "doing", "in flight")
	untouched := createTestTask(t, repo, other.ID, "doing", "other board")

	if err := repo.DeleteColumn(ctx, columns[2].ID); err != nil {
		t.Fatalf("Failed to delete column: %v", err)
	}

	n, err := countTasks(ctx, repo, board.ID, "doing")
	if err != nil {
		t.Fatalf("Failed to count tasks: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no task left on the deleted key, got %d", n)
	}
	got, _ := repo.GetTask(ctx, straggler.ID)
	if got.Status != "inbox" {
		t.Errorf("Expected straggler in the first column, got %s", got.Status)
	}
	got, _ = repo.GetTask(ctx, untouched.ID)
	if got.Status != "doing" {
		t.Errorf("Other board must be untouched, got %s", got.Status)
	}

	if err := repo.DeleteColumn(ctx, columns[2].ID); !errors.Is(err, models.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestDeleteOnlyColumnLeavesTasks(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	board := createTestBoard(t, repo, "Board")
	columns, _ := repo.GetColumns(ctx, board.ID)
	for _, c := range columns[1:] {
		if err := repo.DeleteColumn(ctx, c.ID); err != nil {
			t.Fatalf("Failed to delete column %s: %v", c.Key, err)
		}
	}
	task := createTestTask(t, repo, board.ID, "inbox", "last")

	if err := repo.DeleteColumn(ctx, columns[0].ID); err != nil {
		t.Fatalf("Failed to delete last column: %v", err)
	}
	got, _ := repo.GetTask(ctx, task.ID)
	if got.Status != "inbox" {
		t.Errorf("Expected status kept without a fallback, got %s", got.Status)
	}
}
