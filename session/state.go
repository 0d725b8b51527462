package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
)

// ErrSessionEnded is returned when a refresh finishes after the session it was
// refreshing has been logged out or replaced by a login. The result is discarded.
var ErrSessionEnded = fmt.Errorf("session ended during refresh: %w", errors.ErrUnauthorized)

// Phase is where the session is in its lifecycle.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseRefreshing
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	User            *users.User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	Loading         bool
	Error           string
	Phase           Phase
}

// State is the process-wide session record. Create one per application with
// NewState; tests create as many isolated ones as they need.
type State struct {
	mu    sync.RWMutex
	store credentials.Store

	user         *users.User
	accessToken  string
	refreshToken string
	loading      bool
	errMsg       string
	phase        Phase
	epoch        uint64 // bumped by LoginSuccess and Logout

	observers []func(Snapshot)
}

// NewState returns an empty (Anonymous) session backed by store. Call CheckAuth
// to hydrate it from persisted credentials.
func NewState(store credentials.Store) *State {
	return &State{store: store}
}

// OnChange registers fn to be called with a snapshot after every transition.
// fn runs on the goroutine that performed the transition.
func (s *State) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		User:            s.user.Clone(),
		AccessToken:     s.accessToken,
		RefreshToken:    s.refreshToken,
		IsAuthenticated: s.accessToken != "",
		Loading:         s.loading,
		Error:           s.errMsg,
		Phase:           s.phase,
	}
}

func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

func (s *State) CurrentUser() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// LoginStart marks a login exchange as in flight.
func (s *State) LoginStart() {
	s.mutate(func() {
		s.phase = PhaseAuthenticating
		s.loading = true
		s.errMsg = ""
	})
}

// LoginSuccess records a new token pair and persists it together with the user
// id. A nil user keeps the user already known to the session, so a refresh does
// not drop profile data it never fetched. A refresh still in flight from before
// the call is discarded when it completes.
func (s *State) LoginSuccess(ctx context.Context, user *users.User, accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return fmt.Errorf("session.LoginSuccess: both tokens are required: %w", errors.ErrInvalidArgument)
	}

	s.mu.Lock()
	s.epoch++
	err := s.loginSuccessLocked(ctx, user, accessToken, refreshToken)
	snap := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	if err != nil {
		return err
	}
	notify(observers, snap)
	return nil
}

// loginSuccessLocked persists and applies a pair. When a write fails the store
// is wiped and the session ends, so no half-written pair is left behind.
func (s *State) loginSuccessLocked(ctx context.Context, user *users.User, accessToken, refreshToken string) error {
	u := s.user
	if user != nil {
		u = user.Clone()
	}

	if err := s.persistLocked(ctx, u, accessToken, refreshToken); err != nil {
		s.user = nil
		s.accessToken = ""
		s.refreshToken = ""
		s.loading = false
		s.phase = PhaseAnonymous
		s.epoch++
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
		return errors.Wrapf(err, "session.LoginSuccess")
	}

	s.user = u
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.loading = false
	s.errMsg = ""
	s.phase = PhaseAuthenticated
	return nil
}

func (s *State) persistLocked(ctx context.Context, u *users.User, accessToken, refreshToken string) error {
	if err := s.store.Set(ctx, credentials.KeyAccessToken, accessToken); err != nil {
		return err
	}
	if err := s.store.Set(ctx, credentials.KeyRefreshToken, refreshToken); err != nil {
		return err
	}
	if u != nil && u.ID != "" {
		if err := s.store.Set(ctx, credentials.KeyUserID, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// LoginFailure records a rejected login. Storage is not touched, and a session
// that was already authenticated stays authenticated.
func (s *State) LoginFailure(message string) {
	s.mutate(func() {
		s.loading = false
		s.errMsg = message
		s.phase = s.restingPhaseLocked()
	})
}

// Logout ends the session: memory is cleared and the store wiped, whatever the
// current phase. The in-memory state is cleared even if wiping the store fails.
func (s *State) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.loading = false
	s.errMsg = ""
	s.phase = PhaseAnonymous
	s.epoch++
	err := s.store.Clear(ctx)
	snap := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	notify(observers, snap)
	if err != nil {
		return errors.Wrapf(err, "session.Logout")
	}
	return nil
}

// CheckAuth rehydrates the tokens from the store without network access. A
// partially persisted session counts as no session. Calling it repeatedly with
// unchanged storage yields the same state.
func (s *State) CheckAuth(ctx context.Context) error {
	creds, err := credentials.Load(ctx, s.store)
	if err != nil {
		return errors.Wrapf(err, "session.CheckAuth")
	}

	s.mutate(func() {
		if !creds.Complete() {
			s.user = nil
			s.accessToken = ""
			s.refreshToken = ""
			s.phase = s.restingPhaseLocked()
			return
		}
		if s.user == nil || s.user.ID != creds.UserID {
			s.user = &users.User{ID: creds.UserID}
		}
		s.accessToken = creds.AccessToken
		s.refreshToken = creds.RefreshToken
		if !s.loading {
			s.phase = PhaseAuthenticated
		}
	})
	return nil
}

// RefreshStart marks a refresh exchange as in flight and returns the epoch it
// started in. The epoch moves on with every login and logout.
func (s *State) RefreshStart() uint64 {
	var epoch uint64
	s.mutate(func() {
		s.loading = true
		if s.accessToken != "" {
			s.phase = PhaseRefreshing
		}
		epoch = s.epoch
	})
	return epoch
}

// RefreshFailure records a failed refresh exchange. Ending the session is the
// caller's decision.
func (s *State) RefreshFailure(message string) {
	s.mutate(func() {
		s.loading = false
		s.errMsg = message
		s.phase = s.restingPhaseLocked()
	})
}

// inEpoch reports whether no login or logout happened since epoch.
func (s *State) inEpoch(epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == epoch
}

// refreshSucceeded applies a refreshed pair unless the session was replaced or
// logged out after the exchange started.
func (s *State) refreshSucceeded(ctx context.Context, epoch uint64, pair *authapi.TokenPair) error {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	err := s.loginSuccessLocked(ctx, nil, pair.AccessToken, pair.RefreshToken)
	snap := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	if err != nil {
		return err
	}
	notify(observers, snap)
	return nil
}

func (s *State) restingPhaseLocked() Phase {
	if s.accessToken != "" {
		return PhaseAuthenticated
	}
	return PhaseAnonymous
}

func (s *State) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()
	notify(observers, snap)
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
