package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	refreshFlightKey  = "refresh"
	defaultLoginRoute = "/login"
)

// TokenExchanger performs the network side of login and refresh.
// *authapi.Client implements it.
type TokenExchanger interface {
	Login(ctx context.Context, email, password string) (*authapi.LoginResponse, error)
	Refresh(ctx context.Context, userID, refreshToken string) (*authapi.TokenPair, error)
}

var _ TokenExchanger = (*authapi.Client)(nil)

// Manager drives a State over the network: login, single-flight refresh and
// teardown when a refresh fails.
type Manager struct {
	state      *State
	store      credentials.Store
	exchanger  TokenExchanger
	navigator  Navigator
	loginRoute string
	flights    singleflight.Group
	metrics    *Metrics
	logger     zerolog.Logger
}

type ManagerOption func(*Manager)

func WithNavigator(n Navigator) ManagerOption {
	return func(m *Manager) {
		m.navigator = n
	}
}

func WithLoginRoute(route string) ManagerOption {
	return func(m *Manager) {
		m.loginRoute = route
	}
}

func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager returns a manager with a fresh, empty State over store.
func NewManager(store credentials.Store, exchanger TokenExchanger, options ...ManagerOption) *Manager {
	m := &Manager{
		state:     NewState(store),
		store:     store,
		exchanger: exchanger,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.navigator == nil {
		m.navigator = noopNavigator{}
	}
	if m.loginRoute == "" {
		m.loginRoute = defaultLoginRoute
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	return m
}

func (m *Manager) State() *State {
	return m.state
}

func (m *Manager) Store() credentials.Store {
	return m.store
}

func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

func (m *Manager) LoginRoute() string {
	return m.loginRoute
}

func (m *Manager) IsAuthenticated() bool {
	return m.state.IsAuthenticated()
}

func (m *Manager) CurrentUser() *users.User {
	return m.state.CurrentUser()
}

// CheckAuth hydrates the session from the credential store.
func (m *Manager) CheckAuth(ctx context.Context) error {
	return m.state.CheckAuth(ctx)
}

// Login authenticates against the API. A rejection is recorded as the session
// error and returned; an existing session is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (*users.User, error) {
	m.state.LoginStart()

	resp, err := m.exchanger.Login(ctx, email, password)
	if err != nil {
		m.state.LoginFailure(errorMessage(err))
		m.logger.Info().Err(err).Str("email", email).Msg("login failed")
		return nil, err
	}
	if resp == nil || resp.User == nil {
		err := fmt.Errorf("session.Login: response carries no user: %w", errors.ErrLoginRejected)
		m.state.LoginFailure(errorMessage(err))
		return nil, err
	}
	if err := m.state.LoginSuccess(ctx, resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		m.state.LoginFailure(errorMessage(err))
		return nil, err
	}

	m.logger.Info().Str("user_id", resp.User.ID).Msg("logged in")
	return resp.User.Clone(), nil
}

// Logout ends the session. It is the only way a session ends, whether the
// operator asked for it or a refresh failed.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.state.Logout(ctx)
	m.logger.Info().Err(err).Msg("logged out")
	return err
}

// Refresh exchanges the persisted refresh token for a new pair. Concurrent
// calls, including RefreshStale, share one exchange.
func (m *Manager) Refresh(ctx context.Context) (*authapi.TokenPair, error) {
	return m.refresh(ctx, "")
}

// RefreshStale is Refresh for a caller whose request failed with staleToken.
// If the stored token has already moved on, the current pair is returned
// without another exchange.
func (m *Manager) RefreshStale(ctx context.Context, staleToken string) (*authapi.TokenPair, error) {
	return m.refresh(ctx, staleToken)
}

func (m *Manager) refresh(ctx context.Context, staleToken string) (*authapi.TokenPair, error) {
	// The exchange runs to completion even if this caller stops waiting.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.flights.DoChan(refreshFlightKey, func() (any, error) {
		return m.exchange(flightCtx, staleToken)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			m.metrics.Refreshes.WithLabelValues(OutcomeFailure).Inc()
			return nil, res.Err
		}
		pair := *res.Val.(*authapi.TokenPair)
		if res.Shared {
			m.metrics.Refreshes.WithLabelValues(OutcomeShared).Inc()
		}
		return &pair, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// exchange runs inside the single flight.
func (m *Manager) exchange(ctx context.Context, staleToken string) (*authapi.TokenPair, error) {
	creds, err := credentials.Load(ctx, m.store)
	if err != nil {
		return nil, err
	}

	if staleToken != "" && creds.AccessToken != "" && creds.AccessToken != staleToken && creds.RefreshToken != "" {
		m.metrics.Refreshes.WithLabelValues(OutcomeSkipped).Inc()
		return &authapi.TokenPair{AccessToken: creds.AccessToken, RefreshToken: creds.RefreshToken}, nil
	}

	epoch := m.state.RefreshStart()
	m.metrics.Exchanges.Inc()

	pair, err := m.exchanger.Refresh(ctx, creds.UserID, creds.RefreshToken)
	if err != nil && !m.state.inEpoch(epoch) {
		// The session this exchange belonged to is gone; leave its successor alone.
		m.logger.Debug().Err(err).Msg("discarding failed refresh of a replaced session")
		return nil, errors.Join(ErrSessionEnded, err)
	}
	if err != nil {
		m.state.RefreshFailure(errorMessage(err))
		m.teardown(ctx, err, creds)
		return nil, err
	}

	if err := m.state.refreshSucceeded(ctx, epoch, pair); err != nil {
		m.logger.Warn().Err(err).Msg("discarding refreshed tokens")
		return nil, err
	}

	m.metrics.Refreshes.WithLabelValues(OutcomeSuccess).Inc()
	m.logger.Debug().Str("user_id", creds.UserID).Time("expires", pair.Expiry()).Msg("session refreshed")
	return pair, nil
}

// teardown ends the session after a failed exchange. Missing identifiers only
// end a session that still holds a (stale) access token.
func (m *Manager) teardown(ctx context.Context, cause error, creds credentials.Credentials) {
	if errors.Is(cause, authapi.ErrInvalidArgument) && creds.AccessToken == "" {
		m.logger.Debug().Err(cause).Msg("no session to refresh")
		return
	}

	m.metrics.Teardowns.Inc()
	m.logger.Warn().Err(cause).Str("user_id", creds.UserID).Msg("refresh failed, ending session")
	if err := m.state.Logout(ctx); err != nil {
		m.logger.Error().Err(err).Msg("failed to clear credentials")
	}
	m.navigator.Redirect(m.loginRoute)
}

func errorMessage(err error) string {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprint(err)
}
