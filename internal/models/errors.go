package models

import "errors"

// Domain errors shared by the store and the ordering engine
var (
	// ErrColumnLimitReached indicates the board already holds MaxColumnsPerBoard columns
	ErrColumnLimitReached = errors.New("board already has the maximum of 10 columns")

	// ErrDuplicateColumnKey indicates another column on the board uses the same key
	ErrDuplicateColumnKey = errors.New("a column with this key already exists on the board")

	ErrTaskNotFound   = errors.New("task not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrBoardNotFound  = errors.New("board not found")
)
