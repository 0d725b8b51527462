package boltstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/boltstore"
	"github.com/jrsteele09/go-admin-session/credentials/storetest"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path, profile string) *boltstore.Store {
	t.Helper()
	s, err := boltstore.Open(path, profile)
	require.NoError(t, err)
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) credentials.Store {
		s := openStore(t, filepath.Join(t.TempDir(), "session.db"), "default")
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s := openStore(t, path, "default")
	require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "t1"))
	require.NoError(t, s.Close())

	s = openStore(t, path, "default")
	defer s.Close()
	v, ok, err := s.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)
}

func TestStore_ProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "session.db"), "staging")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "staging-token"))

	// Same file, other bucket.
	other := boltstore.New(s.DB(), "production")
	_, ok, err := other.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, other.Clear(ctx))
	_, ok, err = s.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
}
