package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			if r.URL.Query().Get("search") != "lamp" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, []map[string]string{{"_id": "p1", "name": "Desk lamp"}})
		case "/admin/users/u9/role":
			var body map[string]string
			if r.Method != http.MethodPut || r.Header.Get("Content-Type") != "application/json" ||
				json.NewDecoder(r.Body).Decode(&body) != nil || body["role"] != "Admin" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		case "/admin/products":
			var body map[string]any
			if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&body) != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			body["_id"] = "p2"
			writeJSON(w, http.StatusCreated, body)
		case "/orders/stats":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	p := setupPipeline(t, b, true)
	ctx := context.Background()

	t.Run("decodes success", func(t *testing.T) {
		var products []map[string]string
		require.NoError(t, p.client.Get(ctx, "/products?search=lamp", &products))
		require.Equal(t, []map[string]string{{"_id": "p1", "name": "Desk lamp"}}, products)
	})

	t.Run("not found", func(t *testing.T) {
		err := p.client.Put(ctx, "admin/users/u9/role", map[string]string{"role": "Admin"}, nil)
		require.ErrorIs(t, err, apiclient.ErrNotFound)
		require.ErrorIs(t, err, apiclient.ErrRequestFailed)
		require.NotErrorIs(t, err, apiclient.ErrUnauthorized)

		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, "User not found", reqErr.Message)
		require.Equal(t, "PUT admin/users/u9/role: User not found (status 404)", reqErr.Error())
	})

	t.Run("post", func(t *testing.T) {
		var created map[string]any
		require.NoError(t, p.client.Post(ctx, "admin/products", map[string]any{"name": "Stool"}, &created))
		require.Equal(t, "p2", created["_id"])
		require.Equal(t, "Stool", created["name"])
	})

	t.Run("error field", func(t *testing.T) {
		err := p.client.Get(ctx, "orders/stats", nil)
		require.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
		require.Contains(t, err.Error(), "boom")
	})

	t.Run("no content", func(t *testing.T) {
		var out map[string]any
		require.NoError(t, p.client.Delete(ctx, "admin/products/p1", &out))
		require.Nil(t, out)
	})

	t.Run("unreachable", func(t *testing.T) {
		c := apiclient.New("http://127.0.0.1:1", apiclient.NewTransport(p.store, p.manager))
		err := c.Get(ctx, "orders", nil)
		require.ErrorIs(t, err, apiclient.ErrRequestFailed)
		require.Zero(t, apiclient.StatusCode(err))
	})
}
