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

// ColumnRepo is the SQLite column registry
type ColumnRepo struct {
	db *sql.DB
}

const columnSelect = `SELECT id, board_id, key, name, icon, color, position FROM columns`

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	var col models.Column
	if err := row.Scan(&col.ID, &col.BoardID, &col.Key, &col.Name, &col.Icon, &col.Color, &col.Position); err != nil {
		return nil, err
	}
	return &col, nil
}

// GetColumns returns the board's columns in display order
func (r *ColumnRepo) GetColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		columnSelect+` WHERE board_id = ? ORDER BY position, id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for board %s: %w", boardID, err)
	}
	defer rows.Close()

	columns := make([]*models.Column, 0)
	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns: %w", err)
	}
	return columns, nil
}

// GetColumnByID retrieves a single column
func (r *ColumnRepo) GetColumnByID(ctx context.Context, columnID string) (*models.Column, error) {
	col, err := scanColumn(r.db.QueryRowContext(ctx, columnSelect+` WHERE id = ?`, columnID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrColumnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column %s: %w", columnID, err)
	}
	return col, nil
}

// CreateColumn appends a column after the board's last column.
// The cap trigger turns an 11th insert into models.ErrColumnLimitReached.
func (r *ColumnRepo) CreateColumn(ctx context.Context, boardID string, meta models.ColumnMetadata) (*models.Column, error) {
	col := &models.Column{
		ID:      types.NewID(),
		BoardID: boardID,
		Key:     meta.Key,
		Name:    meta.Name,
		Icon:    meta.Icon,
		Color:   meta.Color,
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM boards WHERE id = ?)`, boardID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check board: %w", err)
		}
		if !exists {
			return models.ErrBoardNotFound
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM columns WHERE board_id = ?`, boardID,
		).Scan(&col.Position); err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO columns (id, board_id, key, name, icon, color, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			col.ID, col.BoardID, col.Key, col.Name, col.Icon, col.Color, col.Position,
		)
		if err != nil {
			if mapped := mapConstraintError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to insert column: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// UpdateColumn rewrites a column's display metadata. The key is immutable.
func (r *ColumnRepo) UpdateColumn(ctx context.Context, columnID string, meta models.ColumnMetadata) (*models.Column, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE columns SET name = ?, icon = ?, color = ? WHERE id = ?`,
		meta.Name, meta.Icon, meta.Color, columnID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update column %s: %w", columnID, err)
	}
	if err := requireAffected(result, models.ErrColumnNotFound); err != nil {
		return nil, err
	}
	return r.GetColumnByID(ctx, columnID)
}

// DeleteColumn removes the column row. Callers reassign its tasks first;
// any task that still carries the key when the delete runs, such as one
// created in between, moves to the lowest-position remaining column in the
// same transaction.
func (r *ColumnRepo) DeleteColumn(ctx context.Context, columnID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID, key string
		err := tx.QueryRowContext(ctx,
			`SELECT board_id, key FROM columns WHERE id = ?`, columnID,
		).Scan(&boardID, &key)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrColumnNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get column %s: %w", columnID, err)
		}

		var fallbackKey string
		err = tx.QueryRowContext(ctx,
			`SELECT key FROM columns WHERE board_id = ? AND id != ? ORDER BY position LIMIT 1`,
			boardID, columnID,
		).Scan(&fallbackKey)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Only column of the board: nothing to move tasks to
		case err != nil:
			return fmt.Errorf("failed to find fallback column: %w", err)
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE tasks SET status = ?, updated_at = ? WHERE board_id = ? AND status = ?`,
				fallbackKey, formatTime(time.Now()), boardID, key,
			); err != nil {
				return fmt.Errorf("failed to reassign remaining %s tasks: %w", key, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, columnID); err != nil {
			return fmt.Errorf("failed to delete column %s: %w", columnID, err)
		}
		return nil
	})
}
