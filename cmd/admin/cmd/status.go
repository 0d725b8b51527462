package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	snap := app.manager.State().Snapshot()

	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "API:\t%s\n", app.cfg.GetAPIBaseURL())
	fmt.Fprintf(w, "Store:\t%s (%s)\n", app.cfg.GetStoreDriver(), app.cfg.GetStoreProfile())
	fmt.Fprintf(w, "Session:\t%s\n", snap.Phase)

	if snap.IsAuthenticated {
		// The stored session only knows the user id; ask the API for the rest.
		if profile, err := app.api.Profile(cmd.Context()); err == nil {
			fmt.Fprintf(w, "User:\t%s (%s)\n", profile.Email, profile.Role)
		} else if snap.User != nil {
			fmt.Fprintf(w, "User:\t%s\n", snap.User.ID)
		}
		if exp := authapi.AccessTokenExpiry(app.manager.State().AccessToken()); !exp.IsZero() {
			fmt.Fprintf(w, "Token expires:\t%s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
		}
	}
	if snap.Error != "" {
		fmt.Fprintf(w, "Last error:\t%s\n", snap.Error)
	}
	return w.Flush()
}
