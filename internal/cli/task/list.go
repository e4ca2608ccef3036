package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by column",
		Long: `List a board's tasks column by column, in display order.

Examples:
  opsboard task list --board=<board-id>
  opsboard task list --status=doing --json
  opsboard task list --quiet
`,
		RunE: runList,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().String("status", "", "Only list one column")
	cli.AddOutputFlags(cmd, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	status, _ := cmd.Flags().GetString("status")

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return formatter.Usage("NO_BOARD", err.Error(),
			"Set a board with --board or export "+cli.BoardEnvVar+"=<board-id>")
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

	groups, err := cliInstance.App.TaskService.ListTasks(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}
	if status != "" {
		filtered := groups[:0]
		for _, g := range groups {
			if g.Column.Key == status {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	if formatter.Quiet {
		for _, g := range groups {
			for _, t := range g.Tasks {
				fmt.Println(t.ID)
			}
		}
		return nil
	}

	if formatter.JSON {
		columns := make([]map[string]any, len(groups))
		for i, g := range groups {
			tasks := make([]map[string]any, len(g.Tasks))
			for j, t := range g.Tasks {
				tasks[j] = taskJSON(t)
			}
			columns[i] = map[string]any{
				"key":   g.Column.Key,
				"name":  g.Column.Name,
				"tasks": tasks,
			}
		}
		return formatter.JSONSuccess(map[string]any{"columns": columns})
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(styles.RenderColumnHeader(g.Column, len(g.Tasks)))
		if len(g.Tasks) == 0 {
			fmt.Println(styles.SubtitleStyle.Render("  (empty)"))
			continue
		}
		for _, t := range g.Tasks {
			fmt.Println(styles.RenderTaskLine(t))
		}
	}
	return nil
}
