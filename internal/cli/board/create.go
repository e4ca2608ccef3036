package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	boardservice "github.com/thenoetrevino/opsboard/internal/services/board"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a board for a client. New boards start with the columns
inbox, todo, doing and done.

Examples:
  # Human-readable output
  opsboard board create --name="Website relaunch" --client=acme

  # JSON output for agents
  opsboard board create --name="Website relaunch" --client=acme --json

  # Quiet mode for bash capture
  BOARD_ID=$(opsboard board create --name="Website relaunch" --client=acme --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Board name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "flag", "name", "error", err)
	}
	cmd.Flags().String("client", "", "Owning client ID")

	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	name, _ := cmd.Flags().GetString("name")
	clientID, _ := cmd.Flags().GetString("client")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	b, err := cliInstance.App.BoardService.CreateBoard(ctx, boardservice.CreateBoardRequest{
		ClientID: clientID,
		Name:     name,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(b.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{
			"board": boardJSON(b.ID, b.ClientID, b.Name, b.CreatedAt),
		})
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("Board '%s' created", b.Name)))
	fmt.Printf("  ID: %s\n", b.ID)
	fmt.Println(styles.SubtitleStyle.Render(fmt.Sprintf("  Tip: export %s=%s", cli.BoardEnvVar, b.ID)))
	return nil
}
