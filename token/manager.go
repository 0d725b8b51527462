// Package token issues and validates the token pairs of the development
// backend: short-lived HS256 access tokens and opaque, rotating refresh tokens.
package token

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/token/keys"
	"github.com/jrsteele09/go-admin-session/token/refresh"
	"github.com/jrsteele09/go-admin-session/users"
)

// Pair is the body of a successful login or refresh.
type Pair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"-"`
}

type Manager struct {
	creator   *jwt.Creator
	inspector *jwt.Inspector
	refresh   *refresh.Manager
	revoked   RevokedTokenCache
}

type ManagerOption func(*Manager)

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revoked = cache
	}
}

// New builds a manager signing with the configured secret. issuer is written to
// and required from every access token.
func New(cfg config.OAuthConfig, issuer string, refreshRepo refresh.Repo, options ...ManagerOption) (*Manager, error) {
	signer, err := keys.NewHMACSigner(cfg.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("[token.New] %w", err)
	}

	m := &Manager{
		refresh: refresh.NewManager(refreshRepo, cfg.GetRefreshTokenLength(), cfg.GetDefaultRefreshTokenExpiry()),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.revoked == nil {
		m.revoked = NewInMemoryRevokedTokenCache(jwt.NowTimeFunc)
	}

	m.creator = jwt.NewCreator(issuer, cfg.GetDefaultAccessTokenExpiry(), signer)
	m.inspector = jwt.NewInspector(issuer, signer, m.revoked)
	return m, nil
}

// Issue creates a new pair for user. Any earlier refresh token of the user stops
// working.
func (m *Manager) Issue(user *users.User) (*Pair, error) {
	refreshToken, err := m.refresh.Create(user.ID)
	if err != nil {
		return nil, err
	}
	return m.pair(user, refreshToken)
}

// Refresh exchanges refreshToken for a new pair. The token must belong to user
// and is consumed by the exchange.
func (m *Manager) Refresh(user *users.User, refreshToken string) (*Pair, error) {
	rotated, err := m.refresh.Rotate(user.ID, refreshToken)
	if err != nil {
		return nil, err
	}
	return m.pair(user, rotated)
}

// Inspect validates an access token.
func (m *Manager) Inspect(accessToken string) (*jwt.Claims, error) {
	return m.inspector.Inspect(accessToken)
}

// Revoke ends the session claims belong to: the access token stops being
// accepted and the user's refresh token is deleted.
func (m *Manager) Revoke(claims *jwt.Claims) error {
	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := m.revoked.Add(claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}
	m.revoked.Cleanup()
	return m.refresh.Revoke(claims.Subject)
}

// RevokeUser deletes the refresh token of userID so it cannot be refreshed.
func (m *Manager) RevokeUser(userID string) error {
	return m.refresh.Revoke(userID)
}

func (m *Manager) pair(user *users.User, refreshToken string) (*Pair, error) {
	accessToken, exp, err := m.creator.CreateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: exp}, nil
}
