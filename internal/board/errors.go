package board

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/opsboard/internal/models"
)

var (
	ErrInvalidTransition      = errors.New("invalid gesture transition")
	ErrGestureInProgress      = errors.New("a drag gesture is already in progress")
	ErrNoFallbackColumn       = errors.New("cannot delete the only column of a board")
	ErrNotLoaded              = errors.New("board has not been loaded")
	ErrColumnDeleteIncomplete = errors.New("tasks were reassigned but the column could not be deleted")

	ErrTaskNotFound       = models.ErrTaskNotFound
	ErrColumnNotFound     = models.ErrColumnNotFound
	ErrColumnLimitReached = models.ErrColumnLimitReached
)

// Commit steps reported by CommitError
const (
	StepStatus   = "status"
	StepPosition = "position"
)

// CommitError describes where a commit sequence stopped.
// Writes issued before the failing one have already been applied by the store.
type CommitError struct {
	Step        string // StepStatus or StepPosition
	TaskID      string // The dragged task
	WriteTaskID string // The task whose write failed
	From        string // Origin status of the dragged task
	To          string // Destination status of the dragged task
	Stale       bool   // The reload after the failure also failed
	Err         error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s write of task %s while moving %s (%s -> %s): %v",
		e.Step, e.WriteTaskID, e.TaskID, e.From, e.To, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// UserMessage is the non-technical text shown to the person dragging
func (e *CommitError) UserMessage() string {
	return "Your change could not be saved. The board has been refreshed, please try again."
}
