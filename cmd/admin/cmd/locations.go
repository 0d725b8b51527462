package cmd

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-admin-session/credentials"
)

const keyReturnTo = "returnTo"

// locationStore remembers the command a missing or expired session interrupted.
// It is kept apart from the credential store, which only ever holds the session.
type locationStore interface {
	Remember(ctx context.Context, location string) error
	Recall(ctx context.Context) (string, error)
	Forget(ctx context.Context) error
}

var _ locationStore = profileLocations{}

// profileLocations keeps the location in its own profile of the store backend.
type profileLocations struct {
	store credentials.Store
}

func (p profileLocations) Remember(ctx context.Context, location string) error {
	if err := p.store.Set(ctx, keyReturnTo, location); err != nil {
		return fmt.Errorf("remembering %s: %w", location, err)
	}
	return nil
}

func (p profileLocations) Recall(ctx context.Context) (string, error) {
	v, _, err := p.store.Get(ctx, keyReturnTo)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", keyReturnTo, err)
	}
	return v, nil
}

func (p profileLocations) Forget(ctx context.Context) error {
	return p.store.Clear(ctx)
}

// locationsProfile names the profile holding the remembered location next to
// the session profile.
func locationsProfile(profile string) string {
	return profile + ".locations"
}
