package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

const maxTitleLength = 255

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, boardID string) ([]board.Group, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	// Task movements
	MoveTask(ctx context.Context, req MoveTaskRequest) (*board.CommitResult, error)
	MoveTaskUp(ctx context.Context, taskID string) (*board.CommitResult, error)
	MoveTaskDown(ctx context.Context, taskID string) (*board.CommitResult, error)
	MoveTaskToNextColumn(ctx context.Context, taskID string) (*board.CommitResult, error)
	MoveTaskToPrevColumn(ctx context.Context, taskID string) (*board.CommitResult, error)
}

// CreateTaskRequest encapsulates all data needed to create a task.
// An empty Status puts the task in the board's first column.
type CreateTaskRequest struct {
	BoardID     string
	Status      string
	Title       string
	Description string
	AssigneeID  string
	StartDate   *time.Time
	DueDate     *time.Time
}

// UpdateTaskRequest encapsulates all data needed to update a task
// Fields with pointers are optional - nil means don't update
type UpdateTaskRequest struct {
	TaskID         string
	Title          *string
	Description    *string
	AssigneeID     *string
	StartDate      *time.Time
	DueDate        *time.Time
	ClearStartDate bool
	ClearDueDate   bool
}

// MoveTaskRequest drops a task onto another task or onto a column.
// Exactly one of OntoTaskID and OntoColumn is set.
type MoveTaskRequest struct {
	TaskID     string
	OntoTaskID string
	OntoColumn string
}

// repository defines the data access methods needed by the task service.
// Status and position changes go through the board engine.
type repository interface {
	GetColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

// service implements Service interface
type service struct {
	repo        repository
	engines     *board.Registry
	eventClient events.EventPublisher
	actor       string
}

// NewService creates a new task service. eventClient may be nil.
func NewService(repo repository, engines *board.Registry, eventClient events.EventPublisher, actor string) Service {
	return &service{
		repo:        repo,
		engines:     engines,
		eventClient: eventClient,
		actor:       actor,
	}
}

// GetTask retrieves a single task
func (s *service) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if !types.IsValidID(taskID) {
		return nil, ErrInvalidTaskID
	}
	return s.repo.GetTask(ctx, taskID)
}

// ListTasks returns the board's tasks grouped by column in display order
func (s *service) ListTasks(ctx context.Context, boardID string) ([]board.Group, error) {
	if !types.IsValidID(boardID) {
		return nil, ErrInvalidBoardID
	}
	eng, err := s.engines.Engine(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return eng.Groups(), nil
}

// CreateTask validates the request and appends the task to the end of its column
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if err := s.validateCreateTask(req); err != nil {
		return nil, err
	}

	columns, err := s.repo.GetColumns(ctx, req.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	status := req.Status
	if status == "" {
		status = columns[0].Key
	} else if !hasColumn(columns, status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	task, err := s.repo.CreateTask(ctx, &models.Task{
		BoardID:     req.BoardID,
		Status:      status,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishTaskEvent(task.BoardID, "task created")
	return task, nil
}

// UpdateTask rewrites the descriptive fields of a task
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error) {
	if !types.IsValidID(req.TaskID) {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeID != nil {
		task.AssigneeID = *req.AssigneeID
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.ClearStartDate {
		task.StartDate = nil
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ClearDueDate {
		task.DueDate = nil
	}
	if err := validateDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publishTaskEvent(task.BoardID, "task updated")
	return s.repo.GetTask(ctx, task.ID)
}

// DeleteTask removes a task and closes the gap it leaves in its column
func (s *service) DeleteTask(ctx context.Context, taskID string) error {
	if !types.IsValidID(taskID) {
		return ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	eng, err := s.engines.Engine(ctx, task.BoardID)
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	key := renderedKey(eng.Columns(), task.Status)
	if key == "" {
		return nil
	}
	if _, err := eng.Compact(ctx, key); err != nil {
		return fmt.Errorf("task deleted but column %s was not renumbered: %w", key, err)
	}

	s.publishTaskEvent(task.BoardID, "task deleted")
	return nil
}

// MoveTask runs one drag gesture: pick up the task, hover the target, release
func (s *service) MoveTask(ctx context.Context, req MoveTaskRequest) (*board.CommitResult, error) {
	if !types.IsValidID(req.TaskID) {
		return nil, ErrInvalidTaskID
	}

	var target *board.Target
	switch {
	case req.OntoTaskID != "" && req.OntoColumn == "":
		target = board.OnTask(req.OntoTaskID)
	case req.OntoColumn != "" && req.OntoTaskID == "":
		target = board.OnColumn(req.OntoColumn)
	default:
		return nil, ErrInvalidMoveTarget
	}

	eng, err := s.engineForTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	// The engine treats a drop over nothing as a no-op; a named target must exist
	if req.OntoColumn != "" && !hasColumn(eng.Columns(), req.OntoColumn) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, req.OntoColumn)
	}
	if req.OntoTaskID != "" {
		if _, ok := eng.Task(req.OntoTaskID); !ok {
			return nil, ErrTaskNotFound
		}
	}
	return drag(ctx, eng, req.TaskID, target)
}

// MoveTaskUp drops the task onto the one above it
func (s *service) MoveTaskUp(ctx context.Context, taskID string) (*board.CommitResult, error) {
	return s.moveWithinColumn(ctx, taskID, -1)
}

// MoveTaskDown drops the task onto the one below it
func (s *service) MoveTaskDown(ctx context.Context, taskID string) (*board.CommitResult, error) {
	return s.moveWithinColumn(ctx, taskID, 1)
}

// MoveTaskToNextColumn appends the task to the column on the right
func (s *service) MoveTaskToNextColumn(ctx context.Context, taskID string) (*board.CommitResult, error) {
	return s.moveAcrossColumns(ctx, taskID, 1)
}

// MoveTaskToPrevColumn appends the task to the column on the left
func (s *service) MoveTaskToPrevColumn(ctx context.Context, taskID string) (*board.CommitResult, error) {
	return s.moveAcrossColumns(ctx, taskID, -1)
}

func (s *service) moveWithinColumn(ctx context.Context, taskID string, step int) (*board.CommitResult, error) {
	if !types.IsValidID(taskID) {
		return nil, ErrInvalidTaskID
	}
	eng, err := s.engineForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	groups := eng.Groups()
	col, idx := locate(groups, taskID)
	if col < 0 {
		return nil, ErrTaskNotFound
	}
	tasks := groups[col].Tasks
	next := idx + step
	if next < 0 {
		return nil, ErrAlreadyFirstTask
	}
	if next >= len(tasks) {
		return nil, ErrAlreadyLastTask
	}
	return drag(ctx, eng, taskID, board.OnTask(tasks[next].ID))
}

func (s *service) moveAcrossColumns(ctx context.Context, taskID string, step int) (*board.CommitResult, error) {
	if !types.IsValidID(taskID) {
		return nil, ErrInvalidTaskID
	}
	eng, err := s.engineForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	groups := eng.Groups()
	col, _ := locate(groups, taskID)
	if col < 0 {
		return nil, ErrTaskNotFound
	}
	next := col + step
	if next < 0 {
		return nil, ErrAlreadyFirstColumn
	}
	if next >= len(groups) {
		return nil, ErrAlreadyLastColumn
	}
	return drag(ctx, eng, taskID, board.OnColumn(groups[next].Column.Key))
}

func (s *service) engineForTask(ctx context.Context, taskID string) (*board.Engine, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engines.Engine(ctx, task.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return eng, nil
}

// drag performs a complete gesture on eng
func drag(ctx context.Context, eng *board.Engine, taskID string, target *board.Target) (*board.CommitResult, error) {
	if err := eng.Pickup(taskID); err != nil {
		return nil, err
	}
	if _, err := eng.Hover(target); err != nil {
		eng.Cancel()
		return nil, err
	}
	return eng.Release(ctx, target)
}

// locate returns the group and rank of a task, or -1, -1
func locate(groups []board.Group, taskID string) (int, int) {
	for gi, g := range groups {
		for ti, t := range g.Tasks {
			if t.ID == taskID {
				return gi, ti
			}
		}
	}
	return -1, -1
}

func hasColumn(columns []*models.Column, key string) bool {
	return renderedKey(columns, key) == key
}

// renderedKey returns the column a status renders under: its own column, else the first
func renderedKey(columns []*models.Column, status string) string {
	for _, c := range columns {
		if c.Key == status {
			return status
		}
	}
	if len(columns) == 0 {
		return ""
	}
	return columns[0].Key
}

func (s *service) validateCreateTask(req CreateTaskRequest) error {
	if !types.IsValidID(req.BoardID) {
		return ErrInvalidBoardID
	}
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	return validateDates(req.StartDate, req.DueDate)
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDates(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}

func (s *service) publishTaskEvent(boardID, reason string) {
	if s.eventClient == nil {
		return
	}
	ev := events.NewEvent(boardID, s.actor, events.BoardChanged{Reason: reason})
	if err := s.eventClient.SendEvent(ev); err != nil {
		slog.Warn("failed to send task event", "board_id", boardID, "error", err)
	}
}
