package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	app     *App
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin dashboard for the shop API",
	Long: `Manage users, orders and products of the shop API from the terminal.

The session is kept in the configured credential store (SESSION_STORE) and is
refreshed on start-up. Commands other than login, logout and status require a
session; run "admin login" first.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeApp()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log session activity to stderr")
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, newLogger(cmd), cmd.OutOrStdout(), cmd.InOrStdin())
	if err != nil {
		return err
	}
	app = a

	if err := app.Boot(cmd.Context()); err != nil {
		return err
	}
	return app.Enter(cmd.Context(), location(cmd.CommandPath()))
}

func closeApp() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		app.logger.Warn().Err(err).Msg("closing credential store")
	}
	app = nil
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
