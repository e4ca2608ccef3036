package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
)

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a board with its columns",
		Long: `Show a board and its columns with task counts.

Examples:
  opsboard board show 5f0c...
  opsboard board show --board=5f0c... --json
  opsboard board show 5f0c... --stats
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")
	cmd.Flags().Bool("stats", false, "Include ordering engine counters for this run")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	showStats, _ := cmd.Flags().GetBool("stats")

	var (
		boardID string
		err     error
	)
	if len(args) > 0 {
		boardID, err = cli.GetID(cmd, args, "board")
	} else {
		boardID, err = cli.GetBoardID(cmd)
	}
	if err != nil {
		return formatter.Usage("INVALID_BOARD_ID", err.Error(), "Usage: opsboard board show <id>")
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

	b, err := cliInstance.App.BoardService.GetBoard(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}
	groups, err := cliInstance.App.TaskService.ListTasks(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(b.ID)
		return nil
	}

	if formatter.JSON {
		columns := make([]map[string]any, len(groups))
		for i, g := range groups {
			columns[i] = map[string]any{
				"id":         g.Column.ID,
				"key":        g.Column.Key,
				"name":       g.Column.Name,
				"position":   g.Column.Position,
				"task_count": len(g.Tasks),
			}
		}
		data := boardJSON(b.ID, b.ClientID, b.Name, b.CreatedAt)
		data["columns"] = columns
		out := map[string]any{"board": data}
		if showStats {
			out["metrics"] = cliInstance.App.Metrics().Snapshot()
		}
		return formatter.JSONSuccess(out)
	}

	fmt.Println(styles.TitleStyle.Render(b.Name))
	fmt.Println(styles.SubtitleStyle.Render(b.ID))
	for _, g := range groups {
		fmt.Println("  " + styles.RenderColumnHeader(g.Column, len(g.Tasks)))
	}
	if showStats {
		m := cliInstance.App.Metrics().Snapshot()
		fmt.Println(styles.SubtitleStyle.Render(fmt.Sprintf(
			"engine: %d reloads, %d commits, %d no-ops, %d failures, %d store writes",
			m.Reloads, m.Commits, m.NoOps, m.Failures, m.StoreWrites)))
	}
	return nil
}
