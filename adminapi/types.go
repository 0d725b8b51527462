package adminapi

import (
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
)

// Request and response bodies of the dashboard API.

type RoleRequest struct {
	Role string `json:"role"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AssignRequest struct {
	OrderID    string `json:"orderId"`
	DeliveryID string `json:"deliveryId"`
}

type OrdersResponse struct {
	Orders []*orders.Order `json:"orders"`
}

type OrderResponse struct {
	Message string        `json:"message,omitempty"`
	Order   *orders.Order `json:"order"`
}

type StatsResponse struct {
	Stats orders.Stats `json:"stats"`
}

type ProductsResponse struct {
	Products []*products.Product `json:"products"`
}

type ProductResponse struct {
	Message string            `json:"message,omitempty"`
	Product *products.Product `json:"product"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
