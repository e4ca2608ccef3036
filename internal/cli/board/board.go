package board

import (
	"github.com/spf13/cobra"
)

// BoardCmd returns the board parent command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(WatchCmd())

	return cmd
}

func boardJSON(id, clientID, name string, createdAt any) map[string]any {
	return map[string]any{
		"id":         id,
		"client_id":  clientID,
		"name":       name,
		"created_at": createdAt,
	}
}
