package session

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/config"
	usersession "github.com/thenoetrevino/opsboard/internal/session"
)

// LogoutCmd returns the session logout subcommand
func LogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session tokens",
		Long: `Remove the access and refresh tokens from the config file.

OPSBOARD_TOKEN is not touched; unset it yourself if it is exported.

Examples:
  opsboard session logout
`,
		Args: cobra.NoArgs,
		RunE: runLogout,
	}

	cli.AddOutputFlags(cmd, "No output")

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	// An expired session still has to be removable
	actor := ""
	cliInstance, err := cli.GetCLIFromContext(ctx)
	switch {
	case err == nil:
		defer func() {
			if err := cliInstance.Close(); err != nil {
				slog.Error("failed to close CLI", "error", err)
			}
		}()
		sess := cliInstance.App.Session()
		if sess.Authenticated() {
			actor = sess.Actor()
		}
		sess.Logout()
	case !usersession.IsAuthError(err):
		return formatter.Fail(err)
	}

	if err := config.ClearSession(); err != nil {
		return formatter.Fail(fmt.Errorf("failed to clear stored session: %w", err))
	}
	slog.Info("session cleared", "actor", actor)

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"logged_out": actor})
	}
	if actor == "" {
		fmt.Println("Stored session cleared")
		return nil
	}
	fmt.Printf("Logged out %s\n", actor)
	return nil
}
