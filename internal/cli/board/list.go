package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
)

// ListCmd returns the board list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Long: `List boards, optionally only those of one client.

Examples:
  opsboard board list
  opsboard board list --client=acme --json
  opsboard board list --quiet
`,
		RunE: runList,
	}

	cmd.Flags().String("client", "", "Only list boards of this client")
	cli.AddOutputFlags(cmd, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
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

	boards, err := cliInstance.App.BoardService.ListBoards(ctx, clientID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, b := range boards {
			fmt.Println(b.ID)
		}
		return nil
	}

	if formatter.JSON {
		list := make([]map[string]any, len(boards))
		for i, b := range boards {
			list[i] = boardJSON(b.ID, b.ClientID, b.Name, b.CreatedAt)
		}
		return formatter.JSONSuccess(map[string]any{"boards": list})
	}

	if len(boards) == 0 {
		fmt.Println("No boards found")
		return nil
	}

	fmt.Println(styles.TitleStyle.Render("Boards"))
	for _, b := range boards {
		client := ""
		if b.ClientID != "" {
			client = styles.SubtitleStyle.Render(" (" + b.ClientID + ")")
		}
		fmt.Printf("  %s%s  %s\n", b.Name, client, styles.SubtitleStyle.Render(b.ID))
	}
	return nil
}
