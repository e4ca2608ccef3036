package database

import (
	"context"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// ColumnReader defines read operations on columns
type ColumnReader interface {
	GetColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, columnID string) (*models.Column, error)
}

// ColumnWriter defines write operations on columns
type ColumnWriter interface {
	CreateColumn(ctx context.Context, boardID string, meta models.ColumnMetadata) (*models.Column, error)
	UpdateColumn(ctx context.Context, columnID string, meta models.ColumnMetadata) (*models.Column, error)
	DeleteColumn(ctx context.Context, columnID string) error
}

// TaskReader defines read operations on tasks
type TaskReader interface {
	GetTasks(ctx context.Context, boardID string) ([]*models.Task, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
}

// TaskWriter defines write operations on tasks
type TaskWriter interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	UpdateTaskFields(ctx context.Context, taskID string, fields models.TaskFields) error
	BulkReassignStatus(ctx context.Context, boardID, fromKey, toKey string) error
	DeleteTask(ctx context.Context, taskID string) error
}

// BoardStore defines board operations
type BoardStore interface {
	CreateBoard(ctx context.Context, clientID, name string) (*models.Board, error)
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	ListBoards(ctx context.Context, clientID string) ([]*models.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

// UserStore defines user operations
type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// DataStore is everything the services need from persistence
type DataStore interface {
	BoardStore
	ColumnReader
	ColumnWriter
	TaskReader
	TaskWriter
	UserStore
}
