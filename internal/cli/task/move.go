package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/cli"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [id]",
		Short: "Move a task to another rank or column",
		Long: `Move a task the way a drag and drop would. Exactly one target is required.

Dropping onto a task takes that task's rank; the tasks in between shift by one.
Dropping onto a column appends the task to the bottom of it.

Examples:
  opsboard task move <task-id> --onto-task=<other-task-id>
  opsboard task move <task-id> --onto-column=done
  opsboard task move <task-id> --up
  opsboard task move <task-id> --next --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("id", "", "Task ID (can also be provided as positional argument)")
	cmd.Flags().String("onto-task", "", "Drop onto this task")
	cmd.Flags().String("onto-column", "", "Drop onto this column key")
	cmd.Flags().Bool("up", false, "Swap with the task above")
	cmd.Flags().Bool("down", false, "Swap with the task below")
	cmd.Flags().Bool("next", false, "Move to the bottom of the next column")
	cmd.Flags().Bool("prev", false, "Move to the bottom of the previous column")
	cmd.MarkFlagsMutuallyExclusive("onto-task", "onto-column", "up", "down", "next", "prev")
	cmd.MarkFlagsOneRequired("onto-task", "onto-column", "up", "down", "next", "prev")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	taskID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_TASK_ID", err.Error(), "Usage: opsboard task move <id> --onto-column=<key>")
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

	svc := cliInstance.App.TaskService
	ontoTask, _ := cmd.Flags().GetString("onto-task")
	ontoColumn, _ := cmd.Flags().GetString("onto-column")
	up, _ := cmd.Flags().GetBool("up")
	down, _ := cmd.Flags().GetBool("down")
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	var result *board.CommitResult
	switch {
	case up:
		result, err = svc.MoveTaskUp(ctx, taskID)
	case down:
		result, err = svc.MoveTaskDown(ctx, taskID)
	case next:
		result, err = svc.MoveTaskToNextColumn(ctx, taskID)
	case prev:
		result, err = svc.MoveTaskToPrevColumn(ctx, taskID)
	default:
		result, err = svc.MoveTask(ctx, taskservice.MoveTaskRequest{
			TaskID:     taskID,
			OntoTaskID: ontoTask,
			OntoColumn: ontoColumn,
		})
	}
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		writes := make([]map[string]any, len(result.Writes))
		for i, w := range result.Writes {
			writes[i] = map[string]any{
				"task_id":  w.TaskID,
				"status":   w.Status,
				"position": w.Position,
			}
		}
		return formatter.JSONSuccess(map[string]any{
			"task_id":        taskID,
			"no_op":          result.NoOp,
			"from":           result.From,
			"to":             result.To,
			"status_changed": result.StatusChanged,
			"writes":         writes,
		})
	}

	switch {
	case result.NoOp:
		fmt.Println("Task is already there; nothing changed")
	case result.StatusChanged:
		fmt.Printf("Task moved from %s to %s (%d rank update(s))\n", result.From, result.To, len(result.Writes))
	default:
		fmt.Printf("Task reordered within %s (%d rank update(s))\n", result.To, len(result.Writes))
	}
	return nil
}
