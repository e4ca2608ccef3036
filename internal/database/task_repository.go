package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/opsboard/internal/models"
	"github.com/thenoetrevino/opsboard/internal/types"
)

// TaskRepo is the SQLite task store
type TaskRepo struct {
	db *sql.DB
}

const taskSelect = `SELECT t.id, t.board_id, t.status, t.position, t.title, t.description,
		t.assignee_id, COALESCE(u.display_name, ''), t.start_date, t.due_date,
		t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assignee_id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var (
		task                 models.Task
		assigneeID           sql.NullString
		startDate, dueDate   sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&task.ID, &task.BoardID, &task.Status, &task.Position, &task.Title,
		&task.Description, &assigneeID, &task.AssigneeName, &startDate, &dueDate,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = NullStringToString(assigneeID)
	task.StartDate = nullToTimePtr(startDate)
	task.DueDate = nullToTimePtr(dueDate)
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)
	return &task, nil
}

// GetTasks returns every task on the board in load order. Positions are not
// guaranteed unique; the rowid keeps the order deterministic for ties.
func (r *TaskRepo) GetTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		taskSelect+` WHERE t.board_id = ? ORDER BY t.position, t.rowid`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for board %s: %w", boardID, err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a single task
func (r *TaskRepo) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ?`, taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return task, nil
}

// CreateTask inserts a task at the end of its status group
func (r *TaskRepo) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	created := task.Clone()
	created.ID = types.NewID()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE board_id = ? AND status = ?`,
			created.BoardID, created.Status,
		).Scan(&created.Position); err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, board_id, status, position, title, description,
				assignee_id, start_date, due_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created.ID, created.BoardID, created.Status, created.Position, created.Title,
			created.Description, stringToNull(created.AssigneeID),
			timePtrToNull(created.StartDate), timePtrToNull(created.DueDate),
			formatTime(now), formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetTask(ctx, created.ID)
}

// UpdateTask rewrites the descriptive fields of a task. Status and position
// only change through UpdateTaskFields.
func (r *TaskRepo) UpdateTask(ctx context.Context, task *models.Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, assignee_id = ?, start_date = ?,
			due_date = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, task.Description, stringToNull(task.AssigneeID),
		timePtrToNull(task.StartDate), timePtrToNull(task.DueDate),
		formatTime(time.Now()), task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	return requireAffected(result, models.ErrTaskNotFound)
}

// UpdateTaskFields applies a partial status/position update to one task
func (r *TaskRepo) UpdateTaskFields(ctx context.Context, taskID string, fields models.TaskFields) error {
	if fields.IsEmpty() {
		return fmt.Errorf("update for task %s has no fields", taskID)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if fields.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *fields.Status)
	}
	if fields.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *fields.Position)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), taskID)

	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update fields of task %s: %w", taskID, err)
	}
	return requireAffected(result, models.ErrTaskNotFound)
}

// BulkReassignStatus moves every task of the board from one status to another
func (r *TaskRepo) BulkReassignStatus(ctx context.Context, boardID, fromKey, toKey string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE board_id = ? AND status = ?`,
		toKey, formatTime(time.Now()), boardID, fromKey,
	)
	if err != nil {
		return fmt.Errorf("failed to reassign %s to %s: %w", fromKey, toKey, err)
	}
	return nil
}

// DeleteTask removes a task
func (r *TaskRepo) DeleteTask(ctx context.Context, taskID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return requireAffected(result, models.ErrTaskNotFound)
}
