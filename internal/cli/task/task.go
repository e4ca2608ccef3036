package task

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func dateJSON(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format("2006-01-02")
}

func taskJSON(t *models.Task) map[string]any {
	return map[string]any{
		"id":            t.ID,
		"board_id":      t.BoardID,
		"status":        t.Status,
		"position":      t.Position,
		"title":         t.Title,
		"description":   t.Description,
		"assignee_id":   t.AssigneeID,
		"assignee_name": t.AssigneeName,
		"start_date":    dateJSON(t.StartDate),
		"due_date":      dateJSON(t.DueDate),
		"created_at":    t.CreatedAt,
		"updated_at":    t.UpdatedAt,
	}
}
