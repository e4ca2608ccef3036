package models

import "time"

// Task is a schedulable work item on a board.
// Status and Position are the only fields the ordering engine mutates;
// everything else is passed through unchanged.
type Task struct {
	ID           string
	BoardID      string
	Status       string // Key of the column the task renders in
	Position     int    // Rank within the status group
	Title        string
	Description  string
	AssigneeID   string
	AssigneeName string // Resolved from users at read time
	StartDate    *time.Time
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a shallow copy so cached views never alias store results.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// TaskFields is a partial update of the fields the ordering engine owns.
// Nil pointers are left untouched.
type TaskFields struct {
	Status   *string
	Position *int
}

// IsEmpty reports whether the update would change nothing
func (f TaskFields) IsEmpty() bool {
	return f.Status == nil && f.Position == nil
}

// StatusField builds an update that only changes the status
func StatusField(status string) TaskFields {
	return TaskFields{Status: &status}
}

// PositionField builds an update that only changes the position
func PositionField(position int) TaskFields {
	return TaskFields{Position: &position}
}

// GetID returns the task ID
func (t *Task) GetID() string { return t.ID }
