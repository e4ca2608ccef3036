package session

import (
	"github.com/spf13/cobra"
)

// SessionCmd returns the session parent command
func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or end the signed-in session",
	}

	cmd.AddCommand(StatusCmd())
	cmd.AddCommand(LogoutCmd())

	return cmd
}
