package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Long: `Asks the API to revoke the session, then removes the stored credentials.
The local session is removed even when the API cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if !app.manager.IsAuthenticated() {
		fmt.Fprintln(app.out, "not logged in")
		return errors.Join(app.manager.Logout(ctx), app.locations.Forget(ctx))
	}

	who := app.displayUser()
	if err := app.auth.Logout(ctx, app.manager.State().AccessToken()); err != nil {
		app.logger.Warn().Err(err).Msg("server side logout failed")
	}
	if err := app.manager.Logout(ctx); err != nil {
		return err
	}
	if err := app.locations.Forget(ctx); err != nil {
		app.logger.Warn().Err(err).Msg("forgetting interrupted command")
	}
	fmt.Fprintf(app.out, "logged out %s\n", who)
	return nil
}
