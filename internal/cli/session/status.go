package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/opsboard/internal/cli"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
)

// StatusCmd returns the session status subcommand
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show who commands act as",
		Long: `Show the signed-in user and when the access token expires.

An expiring token is refreshed first when a refresh token is configured.

Examples:
  opsboard session status
  opsboard session status --json
`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	cli.AddOutputFlags(cmd, "Print only the actor")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	sess := cliInstance.App.Session()
	authenticated := sess.Authenticated()
	if authenticated {
		if _, err := sess.AccessToken(ctx); err != nil {
			return formatter.Fail(err)
		}
	}

	if formatter.Quiet {
		fmt.Println(sess.Actor())
		return nil
	}

	var expiresAt *time.Time
	if exp := sess.ExpiresAt(); !exp.IsZero() {
		expiresAt = &exp
	}

	if formatter.JSON {
		return formatter.JSONSuccess(map[string]any{"session": map[string]any{
			"authenticated": authenticated,
			"actor":         sess.Actor(),
			"display_name":  sess.DisplayName(),
			"expires_at":    expiresAt,
		}})
	}

	if !authenticated {
		fmt.Println(styles.WarningStyle.Render("Not signed in"))
		fmt.Println(styles.LabelStyle.Render("Acting as: ") + styles.ValueStyle.Render(sess.Actor()))
		return nil
	}
	fmt.Println(styles.SuccessStyle.Render("Signed in"))
	fmt.Println(styles.LabelStyle.Render("User: ") +
		styles.ValueStyle.Render(fmt.Sprintf("%s (%s)", sess.DisplayName(), sess.Actor())))
	if expiresAt != nil {
		fmt.Println(styles.LabelStyle.Render("Expires: ") +
			styles.ValueStyle.Render(expiresAt.Local().Format(time.RFC1123)))
	}
	return nil
}
