// Package storetest holds the behaviour every credentials.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh, empty store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) credentials.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(ctx, credentials.KeyAccessToken)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "t1"))
		require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "t2"))
		v, ok, err := s.Get(ctx, credentials.KeyAccessToken)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "t2", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, credentials.KeyRefreshToken, ""))
		_, ok, err := s.Get(ctx, credentials.KeyRefreshToken)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("clear removes every key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "t1"))
		require.NoError(t, s.Set(ctx, credentials.KeyRefreshToken, "r1"))
		require.NoError(t, s.Set(ctx, credentials.KeyUserID, "u1"))

		require.NoError(t, s.Clear(ctx))
		for _, key := range credentials.Keys {
			_, ok, err := s.Get(ctx, key)
			require.NoError(t, err)
			require.False(t, ok, key)
		}
		require.NoError(t, s.Clear(ctx), "clearing an empty store is not an error")
	})

	t.Run("load", func(t *testing.T) {
		s := newStore(t)
		c, err := credentials.Load(ctx, s)
		require.NoError(t, err)
		require.True(t, c.Empty())

		require.NoError(t, s.Set(ctx, credentials.KeyAccessToken, "t1"))
		require.NoError(t, s.Set(ctx, credentials.KeyRefreshToken, "r1"))
		c, err = credentials.Load(ctx, s)
		require.NoError(t, err)
		require.False(t, c.Complete())

		require.NoError(t, s.Set(ctx, credentials.KeyUserID, "u1"))
		c, err = credentials.Load(ctx, s)
		require.NoError(t, err)
		require.True(t, c.Complete())
		require.Equal(t, credentials.Credentials{AccessToken: "t1", RefreshToken: "r1", UserID: "u1"}, c)
	})
}
