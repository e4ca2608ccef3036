package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	columnservice "github.com/thenoetrevino/opsboard/internal/services/column"
)

// UpdateCmd returns the column update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a column",
		Long: `Update a column's name, icon or color. The key cannot change.

Examples:
  opsboard column update <column-id> --name="Completed"
  opsboard column update --id=<column-id> --color="#10B981" --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("id", "", "Column ID (can also be provided as positional argument)")
	cmd.Flags().String("name", "", "New column name")
	cmd.Flags().String("icon", "", "New icon")
	cmd.Flags().String("color", "", "New hex color")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	columnID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_COLUMN_ID", err.Error(), "Usage: opsboard column update <id> --name=<name>")
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

	old, err := cliInstance.App.ColumnService.GetColumn(ctx, columnID)
	if err != nil {
		return formatter.Fail(err)
	}

	column, err := cliInstance.App.ColumnService.UpdateColumn(ctx, columnservice.UpdateColumnRequest{
		ID:    columnID,
		Name:  cli.OptionalString(cmd, "name"),
		Icon:  cli.OptionalString(cmd, "icon"),
		Color: cli.OptionalString(cmd, "color"),
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		data := columnJSON(column)
		data["old_name"] = old.Name
		return formatter.JSONSuccess(map[string]any{"column": data})
	}

	fmt.Printf("Column %s updated\n", column.Key)
	if old.Name != column.Name {
		fmt.Printf("  '%s' -> '%s'\n", old.Name, column.Name)
	}
	return nil
}
