// Package credentials persists the three scalar values that make up a dashboard
// session: the access token, the refresh token and the user id. Values are opaque
// strings; nothing here validates token content.
package credentials

import (
	"context"
	"fmt"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
)

// Keys lists every persisted key.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUserID}

// Store is a string key/value store that survives process restarts (or not, for
// the in-memory implementation). Clear removes every key in one step.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// Credentials is a point-in-time read of the persisted session.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Complete reports whether all three values are present. Absence of any one of
// them means there is no session.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != "" && c.UserID != ""
}

// Empty reports whether nothing is persisted.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.UserID == ""
}

// Load reads all persisted keys. Missing keys are returned as empty strings.
func Load(ctx context.Context, store Store) (Credentials, error) {
	var c Credentials
	for key, dst := range map[string]*string{
		KeyAccessToken:  &c.AccessToken,
		KeyRefreshToken: &c.RefreshToken,
		KeyUserID:       &c.UserID,
	} {
		v, _, err := store.Get(ctx, key)
		if err != nil {
			return Credentials{}, fmt.Errorf("credentials.Load %s: %w", key, err)
		}
		*dst = v
	}
	return c, nil
}
