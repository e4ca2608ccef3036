package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show task details",
		Long:  "Display all details of a task, with its description rendered as markdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Task ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	taskID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_TASK_ID", err.Error(),
			"Usage: opsboard task show <id> or opsboard task show --id=<id>")
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

	if formatter.Quiet {
		fmt.Println(task.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"task": taskJSON(task)})
	}

	columnName := task.Status
	if columns, err := cliInstance.App.ColumnService.ListColumns(ctx, task.BoardID); err == nil {
		for _, c := range columns {
			if c.Key == task.Status {
				columnName = c.Name
			}
		}
	}

	fmt.Println(styles.RenderCard(renderTask(task, columnName)))
	return nil
}

func renderTask(task *models.Task, columnName string) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(task.Title) + "\n")
	b.WriteString(styles.SubtitleStyle.Render(task.ID) + "\n\n")

	field := func(label, value string) {
		b.WriteString(styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value) + "\n")
	}
	field("Status", fmt.Sprintf("%s (#%d)", columnName, task.Position))
	if task.AssigneeName != "" {
		field("Assignee", task.AssigneeName)
	} else if task.AssigneeID != "" {
		field("Assignee", task.AssigneeID)
	}
	if task.StartDate != nil {
		field("Start", task.StartDate.Format("2006-01-02"))
	}
	if task.DueDate != nil {
		field("Due", task.DueDate.Format("2006-01-02"))
	}
	field("Updated", task.UpdatedAt.Format("2006-01-02 15:04"))

	b.WriteString(styles.SectionStyle.Render("Description") + "\n")
	b.WriteString(styles.RenderDescription(task.Description, styles.CardWidth-6))
	return b.String()
}
