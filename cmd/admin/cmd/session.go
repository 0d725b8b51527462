package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/go-admin-session/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var watchMetricsAddr string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Session maintenance",
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session alive until interrupted",
	Long: `Refreshes the session every SESSION_REFRESH_INTERVAL and prints every
state change. Exits when interrupted or when a refresh fails. With
--metrics-addr the session counters are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runSessionWatch,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionWatchCmd)
	sessionWatchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100")
}

func runSessionWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if watchMetricsAddr != "" {
		stop, err := serveMetrics(watchMetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	app.manager.State().OnChange(func(s session.Snapshot) {
		line := fmt.Sprintf("%s  %s", time.Now().Format(time.TimeOnly), s.Phase)
		if s.Error != "" {
			line += ": " + s.Error
		}
		fmt.Fprintln(app.out, line)
	})
	fmt.Fprintf(app.out, "watching session of %s, refreshing every %s\n", app.displayUser(), app.cfg.GetRefreshInterval())

	select {
	case <-ctx.Done():
		return nil
	case <-app.scheduler.Done():
		return errors.New("session ended")
	}
}

func serveMetrics(addr string) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("serving metrics on %s: %w", addr, err)
	}
	logger := app.logger
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn().Err(err).Msg("metrics server stopped")
		}
	}()
	fmt.Fprintf(app.out, "metrics on http://%s/metrics\n", ln.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
