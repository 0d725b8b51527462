package session_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/memstore"
	"github.com/jrsteele09/go-admin-session/session"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@b.com"
	testPassword = "pw"
	testUserID   = "u1"
)

// fakeExchanger stands in for the auth API. Refresh blocks on gate when it is set.
type fakeExchanger struct {
	refreshCalls atomic.Int32
	gate         chan struct{}

	mu        sync.Mutex
	refreshFn func(userID, refreshToken string) (*authapi.TokenPair, error)
}

func newFakeExchanger() *fakeExchanger {
	f := &fakeExchanger{}
	f.refreshFn = func(userID, refreshToken string) (*authapi.TokenPair, error) {
		return &authapi.TokenPair{AccessToken: "t2", RefreshToken: "r2"}, nil
	}
	return f
}

func (f *fakeExchanger) setRefresh(fn func(userID, refreshToken string) (*authapi.TokenPair, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshFn = fn
}

func (f *fakeExchanger) Login(_ context.Context, email, password string) (*authapi.LoginResponse, error) {
	if email != testEmail || password != testPassword {
		return nil, &authapi.APIError{Op: "login", Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	return &authapi.LoginResponse{
		User:         &users.User{ID: testUserID, Email: testEmail, Role: users.RoleAdmin},
		AccessToken:  "t1",
		RefreshToken: "r1",
	}, nil
}

func (f *fakeExchanger) Refresh(_ context.Context, userID, refreshToken string) (*authapi.TokenPair, error) {
	if userID == "" || refreshToken == "" {
		return nil, authapi.ErrInvalidArgument
	}
	f.refreshCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	fn := f.refreshFn
	f.mu.Unlock()
	return fn(userID, refreshToken)
}

type recordingNavigator struct {
	mu        sync.Mutex
	locations []string
}

func (n *recordingNavigator) Redirect(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.locations = append(n.locations, location)
}

func (n *recordingNavigator) Locations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.locations...)
}

type fixture struct {
	store     *memstore.Store
	exchanger *fakeExchanger
	navigator *recordingNavigator
	manager   *session.Manager
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memstore.New(),
		exchanger: newFakeExchanger(),
		navigator: &recordingNavigator{},
	}
	f.manager = session.NewManager(f.store, f.exchanger, session.WithNavigator(f.navigator))
	return f
}

func (f *fixture) persist(t *testing.T, accessToken, refreshToken, userID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, credentials.KeyAccessToken, accessToken))
	require.NoError(t, f.store.Set(ctx, credentials.KeyRefreshToken, refreshToken))
	require.NoError(t, f.store.Set(ctx, credentials.KeyUserID, userID))
}

func (f *fixture) stored(t *testing.T) credentials.Credentials {
	t.Helper()
	c, err := credentials.Load(context.Background(), f.store)
	require.NoError(t, err)
	return c
}
