package board

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
)

// DeleteCmd returns the board delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a board",
		Long: `Delete a board with all of its columns and tasks
(requires confirmation unless --force or --quiet).

Examples:
  opsboard board delete 5f0c...
  opsboard board delete 5f0c... --force
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Board ID (can also be provided as positional argument)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	force, _ := cmd.Flags().GetBool("force")

	boardID, err := cli.GetID(cmd, args, "id")
	if err != nil {
		return formatter.Usage("INVALID_BOARD_ID", err.Error(), "Usage: opsboard board delete <id>")
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

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete board '%s' with all its columns and tasks? (y/N): ", b.Name)
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

	if err := cliInstance.App.BoardService.DeleteBoard(ctx, boardID); err != nil {
		return formatter.Fail(err)
	}
	cliInstance.App.Engines.Forget(boardID)

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"board_id": boardID})
	}

	fmt.Printf("Board '%s' deleted\n", b.Name)
	return nil
}
