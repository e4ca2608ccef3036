package board

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	"github.com/thenoetrevino/opsboard/internal/events"
)

// WatchCmd returns the board watch subcommand
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream board change events",
		Long: `Print change events as other users move tasks and edit columns.
Without --board and OPSBOARD_BOARD, events of every board are shown.

Examples:
  opsboard board watch --board=<board-id>
  opsboard board watch --json --limit=10
`,
		RunE: runWatch,
	}

	cmd.Flags().String("board", "", "Board ID (uses "+cli.BoardEnvVar+" env var if not specified)")
	cmd.Flags().Int("limit", 0, "Exit after this many events (0 = until interrupted)")
	cmd.Flags().Bool("json", false, "Output one JSON event per line")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	limit, _ := cmd.Flags().GetInt("limit")

	boardID := ""
	if cmd.Flags().Changed("board") || os.Getenv(cli.BoardEnvVar) != "" {
		id, err := cli.GetBoardID(cmd)
		if err != nil {
			return formatter.Usage("INVALID_BOARD_ID", err.Error(), "Usage: opsboard board watch --board=<id>")
		}
		boardID = id
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

	client := cliInstance.App.Events()
	if client == nil {
		return formatter.Fail(cli.ErrEventsUnavailable)
	}
	if err := client.Subscribe(boardID); err != nil {
		return formatter.Fail(err)
	}
	eventChan, err := client.Listen(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	seen := 0
	for event := range eventChan {
		if err := printEvent(formatter.JSON, event); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			return nil
		}
	}
	return nil
}

func printEvent(jsonOutput bool, event events.Event) error {
	if jsonOutput {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	actor := event.Actor
	if actor == "" {
		actor = "someone"
	}
	fmt.Printf("%s %s %s %s\n",
		styles.SubtitleStyle.Render(event.Timestamp.Format("15:04:05")),
		styles.LabelStyle.Render(string(event.Type)),
		styles.ValueStyle.Render(describe(event.Payload)),
		styles.SubtitleStyle.Render("by "+actor))
	return nil
}

func describe(p events.Payload) string {
	switch v := p.(type) {
	case events.TaskMoved:
		return fmt.Sprintf("task %s %s -> %s", v.TaskID, v.From, v.To)
	case events.TasksReordered:
		return fmt.Sprintf("%d task(s) reordered in %s", len(v.TaskIDs), v.Status)
	case events.ColumnCreated:
		return fmt.Sprintf("column %s (%s) created", v.Name, v.Key)
	case events.ColumnDeleted:
		return fmt.Sprintf("column %s deleted, tasks moved to %s", v.Key, v.FallbackKey)
	case events.CommitFailed:
		return fmt.Sprintf("save of task %s failed", v.TaskID)
	case events.BoardChanged:
		return v.Reason
	default:
		return fmt.Sprintf("%+v", p)
	}
}
