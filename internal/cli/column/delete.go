package column

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/cli"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a column",
		Long: `Delete a column by ID (requires confirmation unless --force or --quiet).

Tasks in the column move to the board's first remaining column before it is removed.
A board always keeps at least one column.

Examples:
  opsboard column delete <column-id>
  opsboard column delete <column-id> --force
  opsboard column delete --id=<column-id> --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Column ID (can also be provided as positional argument)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	force, _ := cmd.Flags().GetBool("force")

	columnID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_COLUMN_ID", err.Error(), "Usage: opsboard column delete <id>")
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

	column, err := cliInstance.App.ColumnService.GetColumn(ctx, columnID)
	if err != nil {
		return formatter.Fail(err)
	}

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Println("Warning: tasks in this column will move to the board's first remaining column")
		fmt.Printf("Delete column '%s' (%s)? (y/N): ", column.Name, column.Key)
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

	result, err := cliInstance.App.ColumnService.DeleteColumn(ctx, columnID)
	if err != nil {
		if errors.Is(err, board.ErrColumnDeleteIncomplete) {
			return formatter.Fail(fmt.Errorf("%w; run the command again to finish", err))
		}
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{
			"column_id":    columnID,
			"fallback_key": result.FallbackKey,
			"reassigned":   result.Reassigned,
		})
	}

	fmt.Printf("Column '%s' deleted\n", column.Name)
	if result.Reassigned > 0 {
		fmt.Printf("  %d task(s) moved to %s\n", result.Reassigned, result.FallbackKey)
	}
	return nil
}
