package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"golang.org/x/oauth2"
)

// TokenSource exposes the session to clients built on golang.org/x/oauth2. The
// token is read from the credential store on every call; an access token whose
// JWT expiry has passed is refreshed first through the shared single flight.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return &tokenSource{m: m}
}

type tokenSource struct {
	m *Manager
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	creds, err := credentials.Load(ctx, ts.m.store)
	if err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("session.TokenSource: not logged in: %w", errors.ErrUnauthorized)
	}

	tok := toOAuth2(authapi.TokenPair{AccessToken: creds.AccessToken, RefreshToken: creds.RefreshToken})
	if tok.Valid() {
		return tok, nil
	}

	pair, err := ts.m.RefreshStale(ctx, creds.AccessToken)
	if err != nil {
		return nil, err
	}
	return toOAuth2(*pair), nil
}

func toOAuth2(pair authapi.TokenPair) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: pair.RefreshToken,
		Expiry:       pair.Expiry(),
	}
}
