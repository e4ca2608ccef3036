package board

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// DeleteResult reports what a column deletion did
type DeleteResult struct {
	Column      *models.Column
	FallbackKey string
	Reassigned  int
}

// CreateColumn counts the board's columns and refuses to create one past
// models.MaxColumnsPerBoard. Nothing is written when the cap is reached.
func CreateColumn(ctx context.Context, registry ColumnRegistry, boardID string, meta models.ColumnMetadata) (*models.Column, error) {
	columns, err := registry.GetColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count columns: %w", err)
	}
	if len(columns) >= models.MaxColumnsPerBoard {
		return nil, ErrColumnLimitReached
	}

	col, err := registry.CreateColumn(ctx, boardID, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return col, nil
}

// DeleteColumn moves every task off a column and then removes it.
//
// Tasks go to the lowest-position remaining column. If the reassignment
// fails the column is not deleted. If the delete fails after the
// reassignment, the column is left empty and ErrColumnDeleteIncomplete is
// returned together with the result so the caller can retry.
func DeleteColumn(ctx context.Context, store Store, boardID, columnID string) (*DeleteResult, error) {
	columns, err := store.GetColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	var target, fallback *models.Column
	for _, c := range columns {
		if c.ID == columnID {
			target = c
		}
	}
	if target == nil {
		return nil, ErrColumnNotFound
	}
	for _, c := range columns {
		if c.ID == columnID {
			continue
		}
		if fallback == nil || c.Position < fallback.Position {
			fallback = c
		}
	}
	if fallback == nil {
		return nil, ErrNoFallbackColumn
	}

	tasks, err := store.GetTasks(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	result := &DeleteResult{Column: target, FallbackKey: fallback.Key}
	for _, t := range tasks {
		if t.Status == target.Key {
			result.Reassigned++
		}
	}

	if err := store.BulkReassignStatus(ctx, boardID, target.Key, fallback.Key); err != nil {
		return nil, fmt.Errorf("failed to reassign tasks from %s to %s: %w", target.Key, fallback.Key, err)
	}

	if err := store.DeleteColumn(ctx, columnID); err != nil {
		return result, fmt.Errorf("%w: %w", ErrColumnDeleteIncomplete, err)
	}
	return result, nil
}

// CreateColumn runs the column guard against the store and appends the new
// column to the local view
func (e *Engine) CreateColumn(ctx context.Context, meta models.ColumnMetadata) (*models.Column, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture.state != Idle {
		return nil, ErrGestureInProgress
	}

	col, err := CreateColumn(ctx, e.store, e.boardID, meta)
	if err != nil {
		e.logger.Warn("column not created", "key", meta.Key, "error", err)
		return nil, err
	}
	e.metrics.IncStoreWrites()

	cc := *col
	e.columns = append(e.columns, &cc)
	e.publish(events.ColumnCreated{ColumnID: col.ID, Key: col.Key, Name: col.Name})
	return col, nil
}

// DeleteColumn runs the deletion sequence and mirrors it in the local view
func (e *Engine) DeleteColumn(ctx context.Context, columnID string) (*DeleteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture.state != Idle {
		return nil, ErrGestureInProgress
	}

	result, err := DeleteColumn(ctx, e.store, e.boardID, columnID)
	if result == nil {
		e.logger.Warn("column not deleted", "column_id", columnID, "error", err)
		return nil, err
	}

	e.metrics.IncStoreWrites()
	for _, t := range e.tasks {
		if t.Status == result.Column.Key {
			t.Status = result.FallbackKey
		}
	}

	if err != nil {
		e.logger.Error("column emptied but not deleted",
			"column_id", columnID,
			"key", result.Column.Key,
			"fallback", result.FallbackKey,
			"error", err)
		e.publish(events.BoardChanged{Reason: "column emptied"})
		return result, err
	}

	e.metrics.IncStoreWrites()
	for i, c := range e.columns {
		if c.ID == columnID {
			e.columns = append(e.columns[:i:i], e.columns[i+1:]...)
			break
		}
	}

	e.logger.Info("column deleted",
		"key", result.Column.Key,
		"fallback", result.FallbackKey,
		"reassigned", result.Reassigned)
	e.publish(events.ColumnDeleted{
		ColumnID:    columnID,
		Key:         result.Column.Key,
		FallbackKey: result.FallbackKey,
		Reassigned:  result.Reassigned,
	})
	return result, nil
}
