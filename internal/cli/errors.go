package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
	boardservice "github.com/thenoetrevino/opsboard/internal/services/board"
	columnservice "github.com/thenoetrevino/opsboard/internal/services/column"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
	"github.com/thenoetrevino/opsboard/internal/session"
)

// ErrEventsUnavailable is returned when live events need redis and it is not configured or not reachable
var ErrEventsUnavailable = errors.New("live events need a reachable redis (set redis.addr or OPSBOARD_REDIS_ADDR)")

// StatusError carries the process exit code of a failed command.
// The message has already been reported through the formatter.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *StatusError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// errorClass pairs a JSON error code with an exit code
type errorClass struct {
	code string
	exit int
}

var errorClasses = []struct {
	target error
	class  errorClass
}{
	{models.ErrBoardNotFound, errorClass{"BOARD_NOT_FOUND", ExitNotFound}},
	{models.ErrColumnNotFound, errorClass{"COLUMN_NOT_FOUND", ExitNotFound}},
	{models.ErrTaskNotFound, errorClass{"TASK_NOT_FOUND", ExitNotFound}},

	{models.ErrColumnLimitReached, errorClass{"COLUMN_LIMIT_REACHED", ExitValidation}},
	{models.ErrDuplicateColumnKey, errorClass{"DUPLICATE_COLUMN_KEY", ExitValidation}},
	{board.ErrNoFallbackColumn, errorClass{"LAST_COLUMN", ExitValidation}},
	{board.ErrGestureInProgress, errorClass{"BOARD_BUSY", ExitError}},
	{board.ErrColumnDeleteIncomplete, errorClass{"COLUMN_DELETE_INCOMPLETE", ExitDataErr}},

	{boardservice.ErrEmptyName, errorClass{"INVALID_NAME", ExitValidation}},
	{boardservice.ErrNameTooLong, errorClass{"INVALID_NAME", ExitValidation}},
	{boardservice.ErrInvalidBoardID, errorClass{"INVALID_BOARD_ID", ExitUsage}},

	{columnservice.ErrEmptyName, errorClass{"INVALID_NAME", ExitValidation}},
	{columnservice.ErrNameTooLong, errorClass{"INVALID_NAME", ExitValidation}},
	{columnservice.ErrInvalidKey, errorClass{"INVALID_KEY", ExitValidation}},
	{columnservice.ErrInvalidColor, errorClass{"INVALID_COLOR", ExitValidation}},
	{columnservice.ErrInvalidColumnID, errorClass{"INVALID_COLUMN_ID", ExitUsage}},
	{columnservice.ErrInvalidBoardID, errorClass{"INVALID_BOARD_ID", ExitUsage}},
	{columnservice.ErrNothingToUpdate, errorClass{"NOTHING_TO_UPDATE", ExitUsage}},

	{taskservice.ErrEmptyTitle, errorClass{"INVALID_TITLE", ExitValidation}},
	{taskservice.ErrTitleTooLong, errorClass{"INVALID_TITLE", ExitValidation}},
	{taskservice.ErrInvalidTaskID, errorClass{"INVALID_TASK_ID", ExitUsage}},
	{taskservice.ErrInvalidBoardID, errorClass{"INVALID_BOARD_ID", ExitUsage}},
	{taskservice.ErrUnknownStatus, errorClass{"UNKNOWN_STATUS", ExitValidation}},
	{taskservice.ErrInvalidDateRange, errorClass{"INVALID_DATE_RANGE", ExitValidation}},
	{taskservice.ErrInvalidMoveTarget, errorClass{"INVALID_MOVE_TARGET", ExitUsage}},
	{taskservice.ErrNoColumns, errorClass{"NO_COLUMNS", ExitDataErr}},
	{taskservice.ErrAlreadyFirstTask, errorClass{"ALREADY_FIRST", ExitValidation}},
	{taskservice.ErrAlreadyLastTask, errorClass{"ALREADY_LAST", ExitValidation}},
	{taskservice.ErrAlreadyFirstColumn, errorClass{"ALREADY_FIRST_COLUMN", ExitValidation}},
	{taskservice.ErrAlreadyLastColumn, errorClass{"ALREADY_LAST_COLUMN", ExitValidation}},

	{ErrEventsUnavailable, errorClass{"EVENTS_UNAVAILABLE", ExitError}},
	{events.ErrNotConnected, errorClass{"EVENTS_UNAVAILABLE", ExitError}},

	{session.ErrTokenExpired, errorClass{"SESSION_EXPIRED", ExitAuth}},
	{session.ErrMalformedToken, errorClass{"SESSION_INVALID", ExitAuth}},
	{session.ErrNoSession, errorClass{"NO_SESSION", ExitAuth}},
}

func classify(err error) errorClass {
	var commitErr *board.CommitError
	if errors.As(err, &commitErr) {
		return errorClass{"COMMIT_FAILED", ExitError}
	}
	for _, ec := range errorClasses {
		if errors.Is(err, ec.target) {
			return ec.class
		}
	}
	return errorClass{"INTERNAL_ERROR", ExitError}
}

// Fail reports err through the formatter and returns a StatusError with the
// matching exit code. Commit failures show their user-facing message.
func (f *OutputFormatter) Fail(err error) error {
	class := classify(err)
	message := err.Error()
	suggestion := ""
	var commitErr *board.CommitError
	if errors.As(err, &commitErr) {
		slog.Error("commit failed", "error", err)
		message = commitErr.UserMessage()
		if commitErr.Stale {
			suggestion = "The board could not be reloaded. Check the database, then run 'opsboard board show' before retrying."
		}
	}
	if session.IsAuthError(err) {
		suggestion = "Sign in again and update session.token in the config, or set OPSBOARD_TOKEN."
	}
	if fmtErr := f.ErrorWithSuggestion(class.code, message, suggestion); fmtErr != nil {
		slog.Error("failed to format error message", "error", fmtErr)
	}
	return &StatusError{Code: class.exit, Err: err}
}

// Usage reports a usage problem with a suggestion and returns ExitUsage
func (f *OutputFormatter) Usage(code, message, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion(code, message, suggestion); fmtErr != nil {
		slog.Error("failed to format error message", "error", fmtErr)
	}
	return &StatusError{Code: ExitUsage, Err: fmt.Errorf("%s", message)}
}
