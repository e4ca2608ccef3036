package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a task",
		Long: `Update a task's title, description, assignee or dates.
Use "task move" to change its column or rank.

Examples:
  opsboard task update <task-id> --title="New title"
  opsboard task update <task-id> --due=2024-06-01 --json
  opsboard task update <task-id> --clear-due
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("id", "", "Task ID (can also be provided as positional argument)")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (markdown)")
	cmd.Flags().String("assignee", "", "New assignee user ID (empty to unassign)")
	cmd.Flags().String("start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().Bool("clear-start", false, "Remove the start date")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	taskID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_TASK_ID", err.Error(), "Usage: opsboard task update <id> --title=<title>")
	}

	req := taskservice.UpdateTaskRequest{
		TaskID:      taskID,
		Title:       cli.OptionalString(cmd, "title"),
		Description: cli.OptionalString(cmd, "description"),
		AssigneeID:  cli.OptionalString(cmd, "assignee"),
	}
	req.ClearStartDate, _ = cmd.Flags().GetBool("clear-start")
	req.ClearDueDate, _ = cmd.Flags().GetBool("clear-due")
	if v := cli.OptionalString(cmd, "start"); v != nil {
		if req.StartDate, err = cli.ParseDate(*v); err != nil {
			return formatter.Usage("INVALID_DATE", err.Error(), "Dates use the form 2024-05-01")
		}
	}
	if v := cli.OptionalString(cmd, "due"); v != nil {
		if req.DueDate, err = cli.ParseDate(*v); err != nil {
			return formatter.Usage("INVALID_DATE", err.Error(), "Dates use the form 2024-05-01")
		}
	}

	if req.Title == nil && req.Description == nil && req.AssigneeID == nil &&
		req.StartDate == nil && req.DueDate == nil && !req.ClearStartDate && !req.ClearDueDate {
		return formatter.Usage("NOTHING_TO_UPDATE", "no fields to update",
			"Pass at least one of --title, --description, --assignee, --start, --due")
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	task, err := cliInstance.App.TaskService.UpdateTask(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"task": taskJSON(task)})
	}

	fmt.Printf("Task '%s' updated\n", task.Title)
	return nil
}
