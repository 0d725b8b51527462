package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/boltstore"
	"github.com/jrsteele09/go-admin-session/credentials/memstore"
	"github.com/jrsteele09/go-admin-session/credentials/redisstore"
	"github.com/jrsteele09/go-admin-session/guard"
	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/lifecycle"
	"github.com/jrsteele09/go-admin-session/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// stores are the backends one run of the CLI works with.
type stores struct {
	session   credentials.Store
	locations locationStore
	close     func() error
}

// storeFactory opens the configured credential store. Tests replace it.
var storeFactory = openStores

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	profile := cfg.GetStoreProfile()
	switch cfg.GetStoreDriver() {
	case config.StoreBolt:
		s, err := boltstore.Open(cfg.GetStorePath(), profile)
		if err != nil {
			return nil, err
		}
		return &stores{
			session:   s,
			locations: profileLocations{store: boltstore.New(s.DB(), locationsProfile(profile))},
			close:     s.Close,
		}, nil
	case config.StoreRedis:
		s, err := redisstore.Connect(ctx, cfg.GetRedisURL(), profile, cfg.GetRequestTimeout())
		if err != nil {
			return nil, err
		}
		return &stores{
			session:   s,
			locations: profileLocations{store: s.Profile(locationsProfile(profile))},
			close:     s.Close,
		}, nil
	default:
		return &stores{
			session:   memstore.New(),
			locations: profileLocations{store: memstore.New()},
			close:     func() error { return nil },
		}, nil
	}
}

// App is one run of the dashboard: a session over the persisted credentials,
// kept alive by a scheduler and consulted through the guard before every command.
type App struct {
	cfg        config.Config
	store      credentials.Store
	locations  locationStore
	closeStore func() error
	manager    *session.Manager
	scheduler  *lifecycle.Scheduler
	guard      *guard.Guard
	auth       *authapi.Client
	api        *adminapi.Client
	navigator  *cliNavigator
	registry   *prometheus.Registry
	logger     zerolog.Logger
	out        io.Writer
	in         io.Reader
}

func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger, out io.Writer, in io.Reader) (*App, error) {
	st, err := storeFactory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s credential store: %w", cfg.GetStoreDriver(), err)
	}
	store := st.session

	a := &App{
		cfg:        cfg,
		store:      store,
		locations:  st.locations,
		closeStore: st.close,
		registry:   prometheus.NewRegistry(),
		logger:     logger,
		out:        out,
		in:         in,
	}
	a.navigator = &cliNavigator{out: out, locations: st.locations, logger: logger}
	a.auth = authapi.New(cfg.GetAPIBaseURL(), authapi.WithLogger(logger))
	a.manager = session.NewManager(store, a.auth,
		session.WithNavigator(a.navigator),
		session.WithLoginRoute(cfg.GetLoginRoute()),
		session.WithMetrics(session.NewMetrics(a.registry)),
		session.WithLogger(logger),
	)
	a.scheduler = lifecycle.New(a.manager, cfg.GetRefreshInterval(), lifecycle.WithLogger(logger))
	a.guard = guard.New(cfg.GetLoginRoute(), cfg.GetDefaultRoute(), guard.WithRules(
		guard.Rule{Path: "/status", Access: guard.Public},
		guard.Rule{Path: "/logout", Access: guard.Public},
		guard.Rule{Path: "/help", Access: guard.Public},
		guard.Rule{Path: "/completion", Access: guard.Public},
	))

	client := apiclient.New(cfg.GetAPIBaseURL(),
		apiclient.NewTransport(store, a.manager, apiclient.WithTransportLogger(logger)),
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger),
	)
	a.api = adminapi.New(client)
	return a, nil
}

// Boot hydrates the session and runs the start-up refresh. A failed boot
// refresh leaves the session anonymous; it is not an error for the app.
func (a *App) Boot(ctx context.Context) error {
	if err := a.manager.CheckAuth(ctx); err != nil {
		return fmt.Errorf("reading stored session: %w", err)
	}
	if err := a.scheduler.Start(ctx); err != nil {
		a.logger.Debug().Err(err).Msg("no session after boot")
	}
	return nil
}

// Enter consults the guard for location. When the guard redirects to the login
// route the location is remembered so login can continue there.
func (a *App) Enter(ctx context.Context, location string) error {
	a.navigator.setLocation(location)

	from, err := a.locations.Recall(ctx)
	if err != nil {
		return err
	}
	decision := a.guard.Check(a.manager.IsAuthenticated(), guard.Navigation{Path: location, From: from})
	if decision.Allowed {
		return nil
	}
	if decision.Redirect == a.guard.LoginRoute() {
		if err := a.locations.Remember(ctx, decision.From); err != nil {
			return err
		}
		return fmt.Errorf("not logged in: run `admin login` to continue with %s", commandLine(decision.From))
	}
	return fmt.Errorf("already logged in as %s: run `admin logout` first", a.displayUser())
}

// Close stops the scheduler and releases the credential store.
func (a *App) Close() error {
	a.scheduler.Stop()
	return a.closeStore()
}

func (a *App) displayUser() string {
	if u := a.manager.CurrentUser(); u != nil {
		if u.Email != "" {
			return u.Email
		}
		return u.ID
	}
	return "unknown user"
}

// cliNavigator turns a redirect to the login route into a message and remembers
// the command that was interrupted.
type cliNavigator struct {
	out       io.Writer
	locations locationStore
	logger    zerolog.Logger

	mu         sync.Mutex
	location   string
	redirected string
}

func (n *cliNavigator) setLocation(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = location
}

func (n *cliNavigator) Redirect(location string) {
	n.mu.Lock()
	from := n.location
	n.redirected = location
	n.mu.Unlock()

	fmt.Fprintln(n.out, "session expired, please log in")
	if from != "" {
		if err := n.locations.Remember(context.Background(), from); err != nil {
			n.logger.Warn().Err(err).Str("location", from).Msg("cannot remember interrupted command")
		}
	}
}

// Redirected returns the location of the last redirect, if any.
func (n *cliNavigator) Redirected() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirected
}

// location maps a command onto a guard location: "admin users list" is "/users/list".
func location(path string) string {
	parts := strings.Fields(path)
	if len(parts) > 0 {
		parts = parts[1:]
	}
	return "/" + strings.Join(parts, "/")
}

func commandLine(location string) string {
	return "`admin " + strings.Join(strings.Split(strings.Trim(location, "/"), "/"), " ") + "`"
}
