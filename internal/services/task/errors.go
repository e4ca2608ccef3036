package task

import (
	"errors"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle        = errors.New("task title cannot be empty")
	ErrTitleTooLong      = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID     = errors.New("invalid task ID")
	ErrInvalidBoardID    = errors.New("invalid board ID")
	ErrUnknownStatus     = errors.New("status does not match any column of the board")
	ErrInvalidDateRange  = errors.New("due date cannot be before start date")
	ErrInvalidMoveTarget = errors.New("move needs exactly one of a target task or a target column")

	// Business logic errors
	ErrTaskNotFound   = models.ErrTaskNotFound
	ErrColumnNotFound = models.ErrColumnNotFound
	ErrNoColumns      = errors.New("board has no columns")
)

// Movement-related errors
var (
	// ErrAlreadyFirstTask indicates that the task is already at the top of the column
	ErrAlreadyFirstTask = errors.New("task is already at the top of the column")

	// ErrAlreadyLastTask indicates that the task is already at the bottom of the column
	ErrAlreadyLastTask = errors.New("task is already at the bottom of the column")

	// ErrAlreadyLastColumn indicates that the task is already in the last column
	ErrAlreadyLastColumn = errors.New("task is already in the last column")

	// ErrAlreadyFirstColumn indicates that the task is already in the first column
	ErrAlreadyFirstColumn = errors.New("task is already in the first column")
)
