package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	"github.com/thenoetrevino/opsboard/internal/models"
	columnservice "github.com/thenoetrevino/opsboard/internal/services/column"
)

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new column",
		Long: fmt.Sprintf(`Append a column to a board. A board holds at most %d columns.
The key is the status stored on tasks; it is derived from the name when omitted.

Examples:
  # Create column at end (human-readable output)
  opsboard column create --name="Review" --board=<board-id>

  # Explicit key, icon and color
  opsboard column create --name="QA" --key=qa --icon=bug --color="#FF5F5F"

  # Quiet mode for bash capture
  COLUMN_ID=$(opsboard column create --name="Review" --quiet)
`, models.MaxColumnsPerBoard),
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Column name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "flag", "name", "error", err)
	}
	cli.AddBoardFlag(cmd)
	cmd.Flags().String("key", "", "Status key (derived from the name if empty)")
	cmd.Flags().String("icon", "", "Icon name")
	cmd.Flags().String("color", "", "Hex color (e.g. #7D56F4)")

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

	name, _ := cmd.Flags().GetString("name")
	key, _ := cmd.Flags().GetString("key")
	icon, _ := cmd.Flags().GetString("icon")
	color, _ := cmd.Flags().GetString("color")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	column, err := cliInstance.App.ColumnService.CreateColumn(ctx, columnservice.CreateColumnRequest{
		BoardID: boardID,
		Key:     key,
		Name:    name,
		Icon:    icon,
		Color:   color,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(column.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"column": columnJSON(column)})
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("Column '%s' created", column.Name)))
	fmt.Printf("  ID: %s\n  Key: %s\n  Position: %d\n", column.ID, column.Key, column.Position)
	return nil
}
