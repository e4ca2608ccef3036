package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List columns of a board",
		Long: `List all columns of a board (in order).

Examples:
  opsboard column list --board=<board-id>
  opsboard column list --json
  opsboard column list --quiet
`,
		RunE: runList,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

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

	b, err := cliInstance.App.BoardService.GetBoard(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}
	columns, err := cliInstance.App.ColumnService.ListColumns(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, col := range columns {
			fmt.Println(col.ID)
		}
		return nil
	}

	if formatter.JSON {
		list := make([]map[string]any, len(columns))
		for i, col := range columns {
			list[i] = columnJSON(col)
		}
		return formatter.JSONSuccess(map[string]any{"columns": list})
	}

	if len(columns) == 0 {
		fmt.Printf("No columns found on board '%s'\n", b.Name)
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Columns on '%s'", b.Name)))
	for i, col := range columns {
		fmt.Printf("  %d. %s  %s\n", i+1,
			styles.BoldColoredText(col.Name, col.Color),
			styles.SubtitleStyle.Render(col.Key+"  "+col.ID))
	}
	return nil
}
