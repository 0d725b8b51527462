package auth_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-session/auth"
	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
	refreshrepofake "github.com/jrsteele09/go-admin-session/token/refresh/repofake"
	"github.com/jrsteele09/go-admin-session/users"
	fakeuserrepo "github.com/jrsteele09/go-admin-session/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testUserEmail    = "jane.doe@example.com"
	testUserPassword = "Password123"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type testFixture struct {
	userRepo users.UserRepo
	tokens   *token.Manager
	service  *auth.Service
	user     *users.User
}

func setupFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{userRepo: fakeuserrepo.NewFakeUserRepo()}

	hash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)
	f.user = &users.User{Email: testUserEmail, Name: "Jane", Role: users.RoleDelivery, PasswordHash: hash}
	require.NoError(t, f.userRepo.Upsert(f.user))

	f.tokens, err = token.New(config.OAuth{
		JWTSecret:          "auth-test-secret-0123456789",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}, "auth-test", refreshrepofake.NewFakeRefreshTokenRepo())
	require.NoError(t, err)

	f.service, err = auth.NewService(f.userRepo, f.tokens, auth.WithNowTime(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return f
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := auth.NewService(nil, nil)
	require.Error(t, err)
}

func TestService_Login(t *testing.T) {
	f := setupFixture(t)

	t.Run("success", func(t *testing.T) {
		user, pair, err := f.service.Login(" "+testUserEmail+" ", testUserPassword)
		require.NoError(t, err)
		require.Equal(t, f.user.ID, user.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		stored, err := f.userRepo.GetByID(f.user.ID)
		require.NoError(t, err)
		require.Equal(t, fixedNow, stored.LastLogin)

		claims, err := f.tokens.Inspect(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, f.user.ID, claims.Subject)
	})

	testCases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", testUserEmail, "nope", auth.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", testUserPassword, auth.ErrInvalidCredentials},
		{"missing email", "", testUserPassword, auth.ErrMissingCredentials},
		{"malformed email", "jane", testUserPassword, auth.ErrMissingCredentials},
		{"missing password", testUserEmail, "", auth.ErrMissingCredentials},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.service.Login(tc.email, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	f := setupFixture(t)
	_, first, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	user, second, err := f.service.Refresh(f.user.ID, first.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, f.user.Email, user.Email)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, _, err = f.service.Refresh(f.user.ID, first.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefresh)
	require.ErrorIs(t, err, errors.ErrRefreshRejected)

	_, _, err = f.service.Refresh("missing", second.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefresh)

	_, _, err = f.service.Refresh(f.user.ID, "")
	require.ErrorIs(t, err, auth.ErrMissingCredentials)
}

func TestService_Logout(t *testing.T) {
	f := setupFixture(t)
	_, pair, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)
	claims, err := f.tokens.Inspect(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(claims))

	_, err = f.tokens.Inspect(pair.AccessToken)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	_, _, err = f.service.Refresh(f.user.ID, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefresh)
}
