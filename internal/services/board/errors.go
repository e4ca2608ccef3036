package board

import (
	"errors"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// Domain errors for board service
var (
	// Validation errors
	ErrEmptyName      = errors.New("board name cannot be empty")
	ErrNameTooLong    = errors.New("board name cannot exceed 100 characters")
	ErrInvalidBoardID = errors.New("invalid board ID")

	// Business logic errors
	ErrBoardNotFound = models.ErrBoardNotFound
)
