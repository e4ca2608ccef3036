// Package board implements the ordering engine of a kanban board: it groups
// tasks into columns and turns drag-and-drop gestures into status and
// position writes against the task store.
package board

import (
	"context"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// TaskStore is the part of the task persistence the engine writes through
type TaskStore interface {
	GetTasks(ctx context.Context, boardID string) ([]*models.Task, error)
	UpdateTaskFields(ctx context.Context, taskID string, fields models.TaskFields) error
	BulkReassignStatus(ctx context.Context, boardID, fromKey, toKey string) error
}

// ColumnRegistry is the ordered, board-scoped list of columns
type ColumnRegistry interface {
	GetColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	CreateColumn(ctx context.Context, boardID string, meta models.ColumnMetadata) (*models.Column, error)
	DeleteColumn(ctx context.Context, columnID string) error
}

// Store is both collaborators; the SQLite repository and its cache satisfy it
type Store interface {
	TaskStore
	ColumnRegistry
}
