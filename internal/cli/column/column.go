package column

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage columns",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func columnJSON(c *models.Column) map[string]any {
	return map[string]any{
		"id":       c.ID,
		"board_id": c.BoardID,
		"key":      c.Key,
		"name":     c.Name,
		"icon":     c.Icon,
		"color":    c.Color,
		"position": c.Position,
	}
}
