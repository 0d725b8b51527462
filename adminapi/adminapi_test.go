package adminapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	body   string
}

// fakeDoer records requests and answers with the canned JSON for the path.
type fakeDoer struct {
	calls     []call
	responses map[string]string
	err       error
}

func (f *fakeDoer) Do(_ context.Context, method, path string, in, out any) error {
	c := call{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		c.body = string(b)
	}
	f.calls = append(f.calls, c)
	if f.err != nil {
		return f.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(f.responses[path]), out)
}

func TestClient_Users(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{responses: map[string]string{
		"admin/all-users":     `[{"_id":"u1","email":"a@b.com","role":"Admin"},{"_id":"u2","email":"d@b.com","role":"Delivery"},{"_id":"u3","email":"e@b.com","role":"delivery"}]`,
		"admin/users/u2/role": `{"_id":"u2","email":"d@b.com","role":"Customer"}`,
		"user/profile":        `{"_id":"u1","email":"a@b.com","role":"Admin"}`,
	}}
	c := adminapi.New(doer)

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	staff, err := c.DeliveryStaff(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"u2", "u3"}, []string{staff[0].ID, staff[1].ID})

	u, err := c.SetUserRole(ctx, "u2", users.RoleCustomer)
	require.NoError(t, err)
	require.Equal(t, users.RoleCustomer, u.Role)

	me, err := c.Profile(ctx)
	require.NoError(t, err)
	require.True(t, me.IsAdmin())

	require.NoError(t, c.DeleteUser(ctx, "u3"))
	require.ErrorIs(t, c.DeleteUser(ctx, ""), errors.ErrInvalidArgument)

	require.Equal(t, []call{
		{http.MethodGet, "admin/all-users", ""},
		{http.MethodGet, "admin/all-users", ""},
		{http.MethodPut, "admin/users/u2/role", `{"role":"Customer"}`},
		{http.MethodGet, "user/profile", ""},
		{http.MethodDelete, "admin/users/u3", ""},
	}, doer.calls)
}

func TestClient_Orders(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{responses: map[string]string{
		"orders":                             `{"orders":[{"_id":"1","orderId":"ORD-1","status":"Pending","totalPrice":12.5}]}`,
		"orders/status/Out%20for%20Delivery": `{"orders":[]}`,
		"orders/stats":                       `{"stats":{"totalOrders":1,"totalSales":12.5,"pendingSales":12.5,"completedSales":0,"statusCounts":{"Pending":1}}}`,
		"orders/ORD-1":                       `{"order":{"orderId":"ORD-1","status":"Confirmed"}}`,
		"orders/assign":                      `{"message":"Delivery assigned","order":{"orderId":"ORD-1","deliveryId":"d1"}}`,
	}}
	c := adminapi.New(doer)

	list, err := c.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, orders.StatusPending, list[0].Status)

	out, err := c.OrdersByStatus(ctx, orders.StatusOutForDelivery)
	require.NoError(t, err)
	require.Empty(t, out)

	stats, err := c.OrderStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.StatusCounts[orders.StatusPending])
	require.InDelta(t, 12.5, stats.TotalSales, 0.001)

	o, err := c.SetOrderStatus(ctx, "ORD-1", orders.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, orders.StatusConfirmed, o.Status)

	o, err = c.AssignDelivery(ctx, "ORD-1", "d1")
	require.NoError(t, err)
	require.Equal(t, "d1", o.DeliveryID)

	_, err = c.AssignDelivery(ctx, "ORD-1", "")
	require.ErrorIs(t, err, errors.ErrInvalidArgument)

	require.Equal(t, `{"status":"Confirmed"}`, doer.calls[3].body)
	require.Equal(t, `{"orderId":"ORD-1","deliveryId":"d1"}`, doer.calls[4].body)
}

func TestClient_Products(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{responses: map[string]string{
		"products":                           `{"products":[{"_id":"p1","name":"Lamp"},{"_id":"p2","name":"Chair"}]}`,
		"products?category=Lighting&name=la": `{"products":[{"_id":"p1","name":"Lamp"}]}`,
	}}
	c := adminapi.New(doer)

	all, err := c.ListProducts(ctx, products.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	some, err := c.ListProducts(ctx, products.Filter{Name: "la", Category: "Lighting"})
	require.NoError(t, err)
	require.Len(t, some, 1)

	require.NoError(t, c.DeleteProduct(ctx, "p1"))
	require.Equal(t, call{http.MethodDelete, "admin/products/p1", ""}, doer.calls[2])
}

func TestClient_ProductEdits(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{responses: map[string]string{
		"admin/products":    `{"message":"Product created","product":{"_id":"p9","name":"Stool","category":"Home"}}`,
		"admin/products/p9": `{"product":{"_id":"p9","name":"Bar Stool","category":"Home"}}`,
	}}
	c := adminapi.New(doer)
	in := products.Input{Name: "Stool", Category: "Home", Price: 10, Stock: 2}

	created, err := c.CreateProduct(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "p9", created.ID)
	require.Equal(t, http.MethodPost, doer.calls[0].method)
	require.Contains(t, doer.calls[0].body, `"name":"Stool"`)

	in.Name = "Bar Stool"
	updated, err := c.UpdateProduct(ctx, "p9", in)
	require.NoError(t, err)
	require.Equal(t, "Bar Stool", updated.Name)
	require.Equal(t, http.MethodPut, doer.calls[1].method)
	require.Equal(t, "admin/products/p9", doer.calls[1].path)

	_, err = c.UpdateProduct(ctx, "", in)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	require.Len(t, doer.calls, 2)
}

func TestClient_PassesErrorsThrough(t *testing.T) {
	reqErr := &apiclient.RequestError{Method: http.MethodGet, Path: "orders", Status: http.StatusForbidden, Message: "Admin access required"}
	c := adminapi.New(&fakeDoer{err: reqErr})

	_, err := c.ListOrders(context.Background())
	require.Same(t, reqErr, err)
	require.ErrorIs(t, err, apiclient.ErrRequestFailed)
}
