package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a task at the bottom of a column.

Examples:
  # Create in the board's first column
  opsboard task create --title="Draft proposal" --board=<board-id>

  # Create in a specific column with dates
  opsboard task create --title="Launch" --status=doing --start=2024-05-01 --due=2024-05-10

  # Quiet mode for bash capture
  TASK_ID=$(opsboard task create --title="Follow up" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("failed to mark flag as required", "flag", "title", "error", err)
	}
	cli.AddBoardFlag(cmd)
	cmd.Flags().String("status", "", "Column key (defaults to the first column)")
	cmd.Flags().String("description", "", "Task description (markdown)")
	cmd.Flags().String("assignee", "", "Assignee user ID")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return formatter.Usage("NO_BOARD", err.Error(),
			"Set a board with --board or export "+cli.BoardEnvVar+"=<board-id>")
	}

	title, _ := cmd.Flags().GetString("title")
	status, _ := cmd.Flags().GetString("status")
	description, _ := cmd.Flags().GetString("description")
	assignee, _ := cmd.Flags().GetString("assignee")
	startFlag, _ := cmd.Flags().GetString("start")
	dueFlag, _ := cmd.Flags().GetString("due")

	start, err := cli.ParseDate(startFlag)
	if err != nil {
		return formatter.Usage("INVALID_DATE", err.Error(), "Dates use the form 2024-05-01")
	}
	due, err := cli.ParseDate(dueFlag)
	if err != nil {
		return formatter.Usage("INVALID_DATE", err.Error(), "Dates use the form 2024-05-01")
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

	task, err := cliInstance.App.TaskService.CreateTask(ctx, taskservice.CreateTaskRequest{
		BoardID:     boardID,
		Status:      status,
		Title:       title,
		Description: description,
		AssigneeID:  assignee,
		StartDate:   start,
		DueDate:     due,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(task.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"task": taskJSON(task)})
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("Task '%s' created", task.Title)))
	fmt.Printf("  ID: %s\n  Status: %s\n  Position: %d\n", task.ID, task.Status, task.Position)
	return nil
}
