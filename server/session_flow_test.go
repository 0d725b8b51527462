package server_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/memstore"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/server"
	"github.com/jrsteele09/go-admin-session/session"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type dashboard struct {
	store     *memstore.Store
	manager   *session.Manager
	api       *adminapi.Client
	redirects chan string
}

func setupDashboard(t *testing.T, s *testServer) *dashboard {
	t.Helper()
	d := &dashboard{store: memstore.New(), redirects: make(chan string, 4)}
	baseURL := s.ts.URL + "/api"
	d.manager = session.NewManager(d.store, authapi.New(baseURL),
		session.WithNavigator(session.NavigatorFunc(func(location string) { d.redirects <- location })),
		session.WithMetrics(session.NewMetrics(prometheus.NewRegistry())),
	)
	client := apiclient.New(baseURL, apiclient.NewTransport(d.store, d.manager), apiclient.WithTimeout(5*time.Second))
	d.api = adminapi.New(client)
	return d
}

// advanceClock moves the token clock past the access token lifetime.
func advanceClock(t *testing.T, by time.Duration) {
	t.Helper()
	orig := jwt.NowTimeFunc
	jwt.NowTimeFunc = func() time.Time { return orig().Add(by) }
	t.Cleanup(func() { jwt.NowTimeFunc = orig })
}

func TestSessionFlow_AdminDashboard(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	d := setupDashboard(t, s)

	user, err := d.manager.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
	require.True(t, d.manager.IsAuthenticated())

	profile, err := d.api.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.ID)

	t.Run("users", func(t *testing.T) {
		list, err := d.api.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 5)

		couriers, err := d.api.DeliveryStaff(ctx)
		require.NoError(t, err)
		require.Len(t, couriers, 2)

		support, err := s.repos.Users.GetByEmail(supportEmail)
		require.NoError(t, err)
		updated, err := d.api.SetUserRole(ctx, support.ID, users.RoleDelivery)
		require.NoError(t, err)
		require.Equal(t, users.RoleDelivery, updated.Role)

		_, err = d.api.SetUserRole(ctx, "missing", users.RoleDelivery)
		require.ErrorIs(t, err, apiclient.ErrNotFound)
	})

	t.Run("orders", func(t *testing.T) {
		stats, err := d.api.OrderStats(ctx)
		require.NoError(t, err)
		require.Equal(t, 5, stats.TotalOrders)
		require.Equal(t, 1, stats.StatusCounts[orders.StatusCancelled])

		pending, err := d.api.OrdersByStatus(ctx, orders.StatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		orderID := pending[0].OrderID

		_, err = d.api.SetOrderStatus(ctx, orderID, orders.StatusDelivered)
		require.Equal(t, 400, apiclient.StatusCode(err))

		courier, err := s.repos.Users.GetByEmail(courierEmail)
		require.NoError(t, err)
		assigned, err := d.api.AssignDelivery(ctx, orderID, courier.ID)
		require.NoError(t, err)
		require.Equal(t, courier.ID, assigned.DeliveryID)

		delivered, err := d.api.SetOrderStatus(ctx, orderID, orders.StatusDelivered)
		require.NoError(t, err)
		require.Equal(t, orders.StatusDelivered, delivered.Status)

		_, err = d.api.AssignDelivery(ctx, orderID, user.ID)
		require.Equal(t, 400, apiclient.StatusCode(err))
	})

	t.Run("products", func(t *testing.T) {
		lamps, err := d.api.ListProducts(ctx, products.Filter{Name: "lamp"})
		require.NoError(t, err)
		require.Len(t, lamps, 2)

		require.NoError(t, d.api.DeleteProduct(ctx, lamps[0].ID))
		lamps, err = d.api.ListProducts(ctx, products.Filter{Name: "lamp", Category: "home"})
		require.NoError(t, err)
		require.Len(t, lamps, 1)

		require.ErrorIs(t, d.api.DeleteProduct(ctx, "missing"), apiclient.ErrNotFound)
	})

	require.Zero(t, testutil.ToFloat64(d.manager.Metrics().Exchanges))
}

func TestSessionFlow_ExpiredTokenRefreshedOnce(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	d := setupDashboard(t, s)

	_, err := d.manager.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	before, err := credentials.Load(ctx, d.store)
	require.NoError(t, err)

	advanceClock(t, 20*time.Minute)

	const callers = 6
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.api.ListOrders(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, float64(1), testutil.ToFloat64(d.manager.Metrics().Exchanges))
	after, err := credentials.Load(ctx, d.store)
	require.NoError(t, err)
	require.True(t, after.Complete())
	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)
	require.True(t, d.manager.IsAuthenticated())
	require.Empty(t, d.redirects)
}

func TestSessionFlow_RevokedSessionRedirectsToLogin(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	d := setupDashboard(t, s)

	_, err := d.manager.Login(ctx, courierEmail, server.DemoPassword)
	require.NoError(t, err)

	courier, err := s.repos.Users.GetByEmail(courierEmail)
	require.NoError(t, err)
	require.NoError(t, s.srv.Tokens().RevokeUser(courier.ID))

	advanceClock(t, 20*time.Minute)

	_, err = d.api.ListOrders(ctx)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Equal(t, "/login", <-d.redirects)
	require.False(t, d.manager.IsAuthenticated())

	creds, err := credentials.Load(ctx, d.store)
	require.NoError(t, err)
	require.True(t, creds.Empty())
}

func TestSessionFlow_ServerLogout(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	d := setupDashboard(t, s)

	_, err := d.manager.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	creds, err := credentials.Load(ctx, d.store)
	require.NoError(t, err)

	require.NoError(t, authapi.New(s.ts.URL+"/api").Logout(ctx, creds.AccessToken))
	require.NoError(t, d.manager.Logout(ctx))
	require.False(t, d.manager.IsAuthenticated())

	_, err = d.api.ListOrders(ctx)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Empty(t, d.redirects)
}
