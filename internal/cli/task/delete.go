package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long: `Delete a task by ID (requires confirmation unless --force or --quiet).
The remaining tasks of its column close the gap.

Examples:
  opsboard task delete <task-id>
  opsboard task delete <task-id> --force
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Task ID (can also be provided as positional argument)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	force, _ := cmd.Flags().GetBool("force")

	taskID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_TASK_ID", err.Error(), "Usage: opsboard task delete <id>")
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

	task, err := cliInstance.App.TaskService.GetTask(ctx, taskID)
	if err != nil {
		return formatter.Fail(err)
	}

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete task '%s'? (y/N): ", task.Title)
		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			slog.Debug("no confirmation read", "error", err)
		}
		response = strings.ToLower(response)
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.TaskService.DeleteTask(ctx, taskID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"task_id": taskID})
	}

	fmt.Printf("Task '%s' deleted\n", task.Title)
	return nil
}
