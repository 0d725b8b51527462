package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/memstore"
	"github.com/jrsteele09/go-admin-session/session"
	"github.com/stretchr/testify/require"
)

// backend is a fake dashboard API. Refresh always rotates to t2/r2 unless
// rejectRefresh is set; resource serves every other path.
type backend struct {
	srv           *httptest.Server
	refreshes     atomic.Int32
	rejectRefresh atomic.Bool
	resource      http.HandlerFunc
}

func newBackend(t *testing.T, resource http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{resource: resource}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+authapi.PathRefreshToken, func(w http.ResponseWriter, r *http.Request) {
		b.refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if b.rejectRefresh.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid refresh token"}`)
			return
		}
		var req authapi.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken != "r1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid refresh token"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(authapi.TokenPair{AccessToken: "t2", RefreshToken: "r2"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b.resource(w, r)
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

type navigatorSpy struct {
	mu        sync.Mutex
	locations []string
}

func (n *navigatorSpy) Redirect(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.locations = append(n.locations, location)
}

func (n *navigatorSpy) Locations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.locations...)
}

type pipeline struct {
	store   *memstore.Store
	manager *session.Manager
	nav     *navigatorSpy
	client  *apiclient.Client
}

func setupPipeline(t *testing.T, b *backend, loggedIn bool) *pipeline {
	t.Helper()
	ctx := context.Background()
	p := &pipeline{store: memstore.New(), nav: &navigatorSpy{}}
	if loggedIn {
		require.NoError(t, p.store.Set(ctx, credentials.KeyAccessToken, "t1"))
		require.NoError(t, p.store.Set(ctx, credentials.KeyRefreshToken, "r1"))
		require.NoError(t, p.store.Set(ctx, credentials.KeyUserID, "u1"))
	}
	p.manager = session.NewManager(p.store, authapi.New(b.srv.URL), session.WithNavigator(p.nav))
	require.NoError(t, p.manager.CheckAuth(ctx))
	p.client = apiclient.New(b.srv.URL, apiclient.NewTransport(p.store, p.manager), apiclient.WithTimeout(5*time.Second))
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
}

func TestTransport_AttachesStoredToken(t *testing.T) {
	var got atomic.Value
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	p := setupPipeline(t, b, true)

	var out map[string]bool
	require.NoError(t, p.client.Get(context.Background(), "orders", &out))
	require.True(t, out["ok"])
	require.Equal(t, "Bearer t1", got.Load())
	require.Zero(t, b.refreshes.Load())
}

func TestTransport_AnonymousRequestHasNoHeader(t *testing.T) {
	var (
		hits atomic.Int32
		auth atomic.Value
	)
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth.Store(r.Header.Get("Authorization"))
		unauthorized(w)
	})
	p := setupPipeline(t, b, false)

	err := p.client.Get(context.Background(), "user/profile", nil)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Equal(t, int32(1), hits.Load())
	require.Equal(t, "", auth.Load())
	require.Zero(t, b.refreshes.Load(), "nothing to refresh with")
	require.Empty(t, p.nav.Locations())
}

func TestTransport_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const requests = 8

	var (
		arrived  atomic.Int32
		ready    = make(chan struct{})
		retried  atomic.Int32
		tokensMu sync.Mutex
		tokens   = map[string]int{}
	)
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "Bearer t1" {
			// Hold every first attempt until all of them are in flight.
			if arrived.Add(1) == requests {
				close(ready)
			}
			select {
			case <-ready:
			case <-time.After(5 * time.Second):
			}
			unauthorized(w)
			return
		}
		retried.Add(1)
		tokensMu.Lock()
		tokens[auth]++
		tokensMu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"path": r.URL.Path})
	})
	p := setupPipeline(t, b, true)

	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out map[string]string
			errs[i] = p.client.Get(context.Background(), "orders/stats", &out)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), b.refreshes.Load())
	require.Equal(t, int32(requests), retried.Load())
	require.Equal(t, map[string]int{"Bearer t2": requests}, tokens)
	require.Equal(t, "t2", p.manager.State().AccessToken())
	require.Empty(t, p.nav.Locations())
}

func TestTransport_RetriesOnlyOnce(t *testing.T) {
	var hits atomic.Int32
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		unauthorized(w)
	})
	p := setupPipeline(t, b, true)

	err := p.client.Get(context.Background(), "admin/all-users", nil)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.ErrorIs(t, err, apiclient.ErrRequestFailed)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))

	require.Equal(t, int32(2), hits.Load())
	require.Equal(t, int32(1), b.refreshes.Load())
	require.True(t, p.manager.IsAuthenticated(), "the refresh itself succeeded")
}

func TestTransport_RejectedRefreshEndsSession(t *testing.T) {
	var hits atomic.Int32
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		unauthorized(w)
	})
	b.rejectRefresh.Store(true)
	p := setupPipeline(t, b, true)

	err := p.client.Get(context.Background(), "orders", nil)
	var reqErr *apiclient.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusUnauthorized, reqErr.Status)
	require.Equal(t, "Token expired", reqErr.Message)

	require.Equal(t, int32(1), hits.Load())
	require.Zero(t, p.store.Len())
	require.False(t, p.manager.IsAuthenticated())
	require.Equal(t, []string{"/login"}, p.nav.Locations())
}

func TestTransport_ReplaysBody(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	received := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
	reset := func() {
		mu.Lock()
		defer mu.Unlock()
		bodies = nil
	}
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		if r.Header.Get("Authorization") == "Bearer t1" {
			unauthorized(w)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	p := setupPipeline(t, b, true)

	t.Run("json client", func(t *testing.T) {
		reset()
		require.NoError(t, p.client.Put(context.Background(), "orders/o1", map[string]string{"status": "Shipped"}, nil))
		got := received()
		require.Len(t, got, 2)
		require.JSONEq(t, `{"status":"Shipped"}`, got[0])
		require.Equal(t, got[0], got[1])
	})

	t.Run("body without GetBody", func(t *testing.T) {
		reset()
		require.NoError(t, p.store.Set(context.Background(), credentials.KeyAccessToken, "t1"))
		require.NoError(t, p.store.Set(context.Background(), credentials.KeyRefreshToken, "r1"))

		// A MultiReader is not one of the types NewRequest knows how to rewind.
		body := io.MultiReader(strings.NewReader(`{"orderId":"o1",`), strings.NewReader(`"deliveryId":"d1"}`))
		req, err := http.NewRequest(http.MethodPut, b.srv.URL+"/orders/assign", body)
		require.NoError(t, err)
		require.Nil(t, req.GetBody)

		resp, err := (&http.Client{Transport: apiclient.NewTransport(p.store, p.manager)}).Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, []string{`{"orderId":"o1","deliveryId":"d1"}`, `{"orderId":"o1","deliveryId":"d1"}`}, received())
	})
}
