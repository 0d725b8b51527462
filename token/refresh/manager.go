package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var (
	ErrInvalidToken = fmt.Errorf("invalid refresh token: %w", errors.ErrRefreshRejected)
	ErrExpiredToken = fmt.Errorf("refresh token expired: %w", errors.ErrRefreshRejected)
)

// Manager creates and rotates refresh tokens. Rotation invalidates the token
// it was given, so a token can be exchanged once.
type Manager struct {
	repo        Repo
	tokenLength int
	expiry      time.Duration
}

func NewManager(repo Repo, tokenLength int, expiry time.Duration) *Manager {
	return &Manager{
		repo:        repo,
		tokenLength: tokenLength,
		expiry:      expiry,
	}
}

// Create issues a new refresh token for userID, replacing any existing one.
func (m *Manager) Create(userID string) (string, error) {
	if err := m.Revoke(userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, m.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Rotate checks that token belongs to userID and has not expired, then replaces
// it with a new one.
func (m *Manager) Rotate(userID, token string) (string, error) {
	rt, err := m.repo.Get(token)
	if err != nil || rt.UserID != userID {
		return "", ErrInvalidToken
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(rt.Token)
		return "", ErrExpiredToken
	}
	return m.Create(userID)
}

// Revoke deletes the refresh token of userID, if there is one.
func (m *Manager) Revoke(userID string) error {
	existing, err := m.repo.GetByUserID(userID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if err := m.repo.Delete(existing.Token); err != nil {
		return fmt.Errorf("failed to delete existing refresh token: %w", err)
	}
	return nil
}

func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.expiry
}
