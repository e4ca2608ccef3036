package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// UserRepo resolves assignee display names
type UserRepo struct {
	db *sql.DB
}

// UpsertUser records or renames a user
func (r *UserRepo) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name`,
		user.ID, user.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return nil
}

// GetUser retrieves a user. Unknown ids yield a nil user and no error.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name FROM users WHERE id = ?`, userID,
	).Scan(&user.ID, &user.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return &user, nil
}
