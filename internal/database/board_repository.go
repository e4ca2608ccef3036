package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

// BoardRepo handles board persistence
type BoardRepo struct {
	db *sql.DB
}

// CreateBoard creates a board and seeds its default columns in one transaction
func (r *BoardRepo) CreateBoard(ctx context.Context, clientID, name string) (*models.Board, error) {
	board := &models.Board{
		ID:        types.NewID(),
		ClientID:  clientID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO boards (id, client_id, name, created_at) VALUES (?, ?, ?, ?)`,
			board.ID, board.ClientID, board.Name, formatTime(board.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert board: %w", err)
		}

		for i, meta := range models.DefaultColumns {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO columns (id, board_id, key, name, icon, color, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				types.NewID(), board.ID, meta.Key, meta.Name, meta.Icon, meta.Color, i,
			)
			if err != nil {
				return fmt.Errorf("failed to create default column %s: %w", meta.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// GetBoard retrieves a board by ID
func (r *BoardRepo) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	var (
		board     models.Board
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, name, created_at FROM boards WHERE id = ?`, boardID,
	).Scan(&board.ID, &board.ClientID, &board.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", boardID, err)
	}
	board.CreatedAt = parseTime(createdAt)
	return &board, nil
}

// ListBoards returns boards ordered by name. An empty clientID lists every board.
func (r *BoardRepo) ListBoards(ctx context.Context, clientID string) ([]*models.Board, error) {
	query := `SELECT id, client_id, name, created_at FROM boards`
	var args []any
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	boards := make([]*models.Board, 0)
	for rows.Next() {
		var (
			board     models.Board
			createdAt string
		)
		if err := rows.Scan(&board.ID, &board.ClientID, &board.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		board.CreatedAt = parseTime(createdAt)
		boards = append(boards, &board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}
	return boards, nil
}

// DeleteBoard deletes a board; its columns and tasks cascade
func (r *BoardRepo) DeleteBoard(ctx context.Context, boardID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("failed to delete board %s: %w", boardID, err)
	}
	return requireAffected(result, models.ErrBoardNotFound)
}
