package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli/board"
	"github.com/thenoetrevino/opsboard/internal/cli/column"
	"github.com/thenoetrevino/opsboard/internal/cli/session"
	"github.com/thenoetrevino/opsboard/internal/cli/task"
)

// Version is set at build time with -ldflags "-X github.com/thenoetrevino/opsboard/cmd.Version=..."
var Version = "dev"

// NewRootCmd builds the opsboard command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opsboard",
		Short: "Opsboard - client operations boards from the terminal",
		Long: `Opsboard manages the kanban boards of an agency's client work:
boards, their columns, and the ordering of tasks within them.

Every command accepts --json for agents and --quiet for scripts.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(session.SessionCmd())

	return rootCmd
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
