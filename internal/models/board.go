package models

import "time"

// Board is a named collection of columns and tasks for a client.
// Boards are the top-level organizational unit the ordering engine works on.
type Board struct {
	ID        string
	ClientID  string // Owning client; opaque outside the admin hierarchy
	Name      string
	CreatedAt time.Time
}

// User is only used to resolve the assignee display name of a task
type User struct {
	ID          string
	DisplayName string
}

// GetID returns the board ID
func (b *Board) GetID() string { return b.ID }
