// Package adminapi wraps the dashboard's business endpoints (users, orders and
// products). Every call goes through the session-aware API client, so an
// expired access token is refreshed transparently.
package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-admin-session/apiclient"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/users"
)

// Doer sends one JSON request. *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

var _ Doer = (*apiclient.Client)(nil)

// Client wraps the admin, order and product endpoints.
type Client struct {
	api Doer
}

func New(api Doer) *Client {
	return &Client{api: api}
}

// Profile returns the user the session belongs to.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := c.api.Do(ctx, http.MethodGet, "user/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]*users.User, error) {
	var list []*users.User
	if err := c.api.Do(ctx, http.MethodGet, "admin/all-users", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeliveryStaff returns the users that orders can be assigned to.
func (c *Client) DeliveryStaff(ctx context.Context) ([]*users.User, error) {
	list, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	staff := make([]*users.User, 0, len(list))
	for _, u := range list {
		if strings.EqualFold(string(u.Role), string(users.RoleDelivery)) {
			staff = append(staff, u)
		}
	}
	return staff, nil
}

func (c *Client) SetUserRole(ctx context.Context, userID string, role users.RoleType) (*users.User, error) {
	if userID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "adminapi.SetUserRole: user id is required")
	}
	var u users.User
	if err := c.api.Do(ctx, http.MethodPut, "admin/users/"+url.PathEscape(userID)+"/role", RoleRequest{Role: string(role)}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "adminapi.DeleteUser: user id is required")
	}
	return c.api.Do(ctx, http.MethodDelete, "admin/users/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]*orders.Order, error) {
	var resp OrdersResponse
	if err := c.api.Do(ctx, http.MethodGet, "orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) OrdersByStatus(ctx context.Context, status orders.Status) ([]*orders.Order, error) {
	var resp OrdersResponse
	if err := c.api.Do(ctx, http.MethodGet, "orders/status/"+url.PathEscape(string(status)), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) OrderStats(ctx context.Context) (*orders.Stats, error) {
	var resp StatsResponse
	if err := c.api.Do(ctx, http.MethodGet, "orders/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	if orderID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "adminapi.SetOrderStatus: order id is required")
	}
	var resp OrderResponse
	if err := c.api.Do(ctx, http.MethodPut, "orders/"+url.PathEscape(orderID), StatusRequest{Status: string(status)}, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) AssignDelivery(ctx context.Context, orderID, deliveryID string) (*orders.Order, error) {
	if orderID == "" || deliveryID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "adminapi.AssignDelivery: order id and delivery id are required")
	}
	var resp OrderResponse
	if err := c.api.Do(ctx, http.MethodPut, "orders/assign", AssignRequest{OrderID: orderID, DeliveryID: deliveryID}, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) ListProducts(ctx context.Context, filter products.Filter) ([]*products.Product, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	path := "products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp ProductsResponse
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct adds a product to the catalogue.
func (c *Client) CreateProduct(ctx context.Context, in products.Input) (*products.Product, error) {
	var resp ProductResponse
	if err := c.api.Do(ctx, http.MethodPost, "admin/products", in, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

// UpdateProduct replaces the editable fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, productID string, in products.Input) (*products.Product, error) {
	if productID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "adminapi.UpdateProduct: product id is required")
	}
	var resp ProductResponse
	if err := c.api.Do(ctx, http.MethodPut, "admin/products/"+url.PathEscape(productID), in, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "adminapi.DeleteProduct: product id is required")
	}
	return c.api.Do(ctx, http.MethodDelete, "admin/products/"+url.PathEscape(productID), nil, nil)
}
