package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/types"
)

// BoardEnvVar names the environment variable used when --board is omitted
const BoardEnvVar = "OPSBOARD_BOARD"

// dateLayout is the accepted format for --start and --due
const dateLayout = "2006-01-02"

// AddOutputFlags registers --json and --quiet on a command
func AddOutputFlags(cmd *cobra.Command, quietHelp string) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, quietHelp)
}

// FormatterFor builds the formatter selected by a command's output flags
func FormatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return NewFormatter(jsonOutput, quietMode)
}

// AddBoardFlag registers --board on a command
func AddBoardFlag(cmd *cobra.Command) {
	cmd.Flags().String("board", "", "Board ID (uses "+BoardEnvVar+" env var if not specified)")
}

// GetBoardID returns the board from --board, falling back to OPSBOARD_BOARD
func GetBoardID(cmd *cobra.Command) (string, error) {
	boardID, _ := cmd.Flags().GetString("board")
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		boardID = strings.TrimSpace(os.Getenv(BoardEnvVar))
	}
	if boardID == "" {
		return "", fmt.Errorf("no board specified: use --board or set %s", BoardEnvVar)
	}
	if !types.IsValidID(boardID) {
		return "", fmt.Errorf("invalid board ID %q", boardID)
	}
	return boardID, nil
}

// GetID returns an ID from the first positional argument or from the named flag
func GetID(cmd *cobra.Command, args []string, flagName string) (string, error) {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		id, _ = cmd.Flags().GetString(flagName)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s is required", flagName)
	}
	if !types.IsValidID(id) {
		return "", fmt.Errorf("invalid %s %q", flagName, id)
	}
	return id, nil
}

// OptionalString returns a pointer to a string flag's value, or nil when the flag was not set
func OptionalString(cmd *cobra.Command, flagName string) *string {
	if !cmd.Flags().Changed(flagName) {
		return nil
	}
	v, _ := cmd.Flags().GetString(flagName)
	return &v
}

// ParseDate parses a YYYY-MM-DD date; an empty string yields nil
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return &d, nil
}
