package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

const maxNameLength = 100

// Service defines all board-related business operations
type Service interface {
	// Read operations
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	ListBoards(ctx context.Context, clientID string) ([]*models.Board, error)

	// Write operations
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error)
	DeleteBoard(ctx context.Context, id string) error
}

// CreateBoardRequest encapsulates data for creating a board
type CreateBoardRequest struct {
	ClientID string
	Name     string
}

// repository defines the data access methods needed by the board service
type repository interface {
	CreateBoard(ctx context.Context, clientID, name string) (*models.Board, error)
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	ListBoards(ctx context.Context, clientID string) ([]*models.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

// service implements Service interface with private repository
type service struct {
	repo        repository
	eventClient events.EventPublisher
	actor       string
}

// NewService creates a new board service. eventClient may be nil.
func NewService(repo repository, eventClient events.EventPublisher, actor string) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
		actor:       actor,
	}
}

// GetBoard retrieves a specific board
func (s *service) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	if !types.IsValidID(id) {
		return nil, ErrInvalidBoardID
	}
	return s.repo.GetBoard(ctx, id)
}

// ListBoards retrieves the boards of a client, or every board when clientID is empty
func (s *service) ListBoards(ctx context.Context, clientID string) ([]*models.Board, error) {
	return s.repo.ListBoards(ctx, clientID)
}

// CreateBoard creates a board seeded with the default columns
func (s *service) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}

	b, err := s.repo.CreateBoard(ctx, req.ClientID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.publishBoardEvent(b.ID, "board created")
	return b, nil
}

// DeleteBoard deletes a board together with its columns and tasks
func (s *service) DeleteBoard(ctx context.Context, id string) error {
	if !types.IsValidID(id) {
		return ErrInvalidBoardID
	}
	if err := s.repo.DeleteBoard(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.publishBoardEvent(id, "board deleted")
	return nil
}

func (s *service) publishBoardEvent(boardID, reason string) {
	if s.eventClient == nil {
		return
	}
	ev := events.NewEvent(boardID, s.actor, events.BoardChanged{Reason: reason})
	if err := s.eventClient.SendEvent(ev); err != nil {
		slog.Warn("failed to send board event", "board_id", boardID, "error", err)
	}
}
