package column

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

// Service defines all column-related business operations
type Service interface {
	// Read operations
	ListColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	GetColumn(ctx context.Context, id string) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error)
	DeleteColumn(ctx context.Context, id string) (*board.DeleteResult, error)
}

// CreateColumnRequest encapsulates data for creating a column.
// An empty Key is derived from Name.
type CreateColumnRequest struct {
	BoardID string
	Key     string
	Name    string
	Icon    string
	Color   string
}

// UpdateColumnRequest changes display metadata. Fields with pointers are
// optional - nil means don't update. The key cannot change.
type UpdateColumnRequest struct {
	ID    string
	Name  *string
	Icon  *string
	Color *string
}

// repository defines the reads and metadata writes the column service needs.
// Creation and deletion go through the board engine.
type repository interface {
	GetColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, columnID string) (*models.Column, error)
	UpdateColumn(ctx context.Context, columnID string, meta models.ColumnMetadata) (*models.Column, error)
}

type service struct {
	repo        repository
	engines     *board.Registry
	eventClient events.EventPublisher
	actor       string
}

// NewService creates a new column service. eventClient may be nil.
func NewService(repo repository, engines *board.Registry, eventClient events.EventPublisher, actor string) Service {
	return &service{
		repo:        repo,
		engines:     engines,
		eventClient: eventClient,
		actor:       actor,
	}
}

// ListColumns returns the board's columns in display order
func (s *service) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	if !types.IsValidID(boardID) {
		return nil, ErrInvalidBoardID
	}
	return s.repo.GetColumns(ctx, boardID)
}

// GetColumn retrieves a specific column
func (s *service) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	if !types.IsValidID(id) {
		return nil, ErrInvalidColumnID
	}
	return s.repo.GetColumnByID(ctx, id)
}

// CreateColumn validates the request and appends the column, subject to the per-board cap
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	meta, err := s.validateCreateColumn(req)
	if err != nil {
		return nil, err
	}

	eng, err := s.engines.Engine(ctx, req.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return eng.CreateColumn(ctx, meta)
}

// UpdateColumn rewrites the display metadata of a column
func (s *service) UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error) {
	if !types.IsValidID(req.ID) {
		return nil, ErrInvalidColumnID
	}
	if req.Name == nil && req.Icon == nil && req.Color == nil {
		return nil, ErrNothingToUpdate
	}

	existing, err := s.repo.GetColumnByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}

	meta := existing.Metadata()
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		meta.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon != nil {
		meta.Icon = *req.Icon
	}
	if req.Color != nil {
		if err := validateColor(*req.Color); err != nil {
			return nil, err
		}
		meta.Color = *req.Color
	}

	col, err := s.repo.UpdateColumn(ctx, req.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	s.publishColumnEvent(col.BoardID, "column updated")
	return col, nil
}

// DeleteColumn moves the column's tasks to the first remaining column and removes it
func (s *service) DeleteColumn(ctx context.Context, id string) (*board.DeleteResult, error) {
	if !types.IsValidID(id) {
		return nil, ErrInvalidColumnID
	}

	col, err := s.repo.GetColumnByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}

	eng, err := s.engines.Engine(ctx, col.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return eng.DeleteColumn(ctx, id)
}

func (s *service) validateCreateColumn(req CreateColumnRequest) (models.ColumnMetadata, error) {
	if !types.IsValidID(req.BoardID) {
		return models.ColumnMetadata{}, ErrInvalidBoardID
	}
	if err := validateName(req.Name); err != nil {
		return models.ColumnMetadata{}, err
	}
	if err := validateColor(req.Color); err != nil {
		return models.ColumnMetadata{}, err
	}

	key := req.Key
	if key == "" {
		key = Slugify(req.Name)
	}
	if !ValidKey(key) {
		return models.ColumnMetadata{}, ErrInvalidKey
	}

	return models.ColumnMetadata{
		Key:   key,
		Name:  strings.TrimSpace(req.Name),
		Icon:  req.Icon,
		Color: req.Color,
	}, nil
}

func (s *service) publishColumnEvent(boardID, reason string) {
	if s.eventClient == nil {
		return
	}
	ev := events.NewEvent(boardID, s.actor, events.BoardChanged{Reason: reason})
	if err := s.eventClient.SendEvent(ev); err != nil {
		slog.Warn("failed to send column event", "board_id", boardID, "error", err)
	}
}
