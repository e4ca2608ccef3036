package column

import (
	"errors"

	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// Column-related errors
var (
	// Validation errors
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name cannot exceed 50 characters")
	ErrInvalidKey      = errors.New("key must start with a letter and contain only a-z, 0-9, '-' or '_' (max 32)")
	ErrInvalidColor    = errors.New("color must be a hex value like #1a2b3c")
	ErrInvalidColumnID = errors.New("invalid column ID")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrNothingToUpdate = errors.New("no fields to update")

	// Business logic errors
	ErrColumnNotFound     = models.ErrColumnNotFound
	ErrDuplicateKey       = models.ErrDuplicateColumnKey
	ErrColumnLimitReached = board.ErrColumnLimitReached
	ErrLastColumn         = board.ErrNoFallbackColumn
)
