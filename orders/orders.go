package orders

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/errors"
)

type Status string

const (
	StatusPending        Status = "Pending"
	StatusConfirmed      Status = "Confirmed"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// Statuses lists every order status in workflow order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q: %w", s, errors.ErrInvalidArgument)
}

type Address struct {
	Street      string `json:"street,omitempty"`
	Building    string `json:"building,omitempty"`
	Apartment   string `json:"apartment,omitempty"`
	Floor       string `json:"floor,omitempty"`
	City        string `json:"city,omitempty"`
	Governorate string `json:"Gover,omitempty"`
}

type LineItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage string  `json:"productImage,omitempty"`
	Quantity     int     `json:"quantity"`
}

// Order is an e-commerce order as returned by the orders API. OrderID is the
// human readable reference used in URLs; ID is the storage key.
type Order struct {
	ID            string     `json:"_id"`
	OrderID       string     `json:"orderId"`
	UserID        string     `json:"userId"`
	Products      []LineItem `json:"products"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        Status     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	DeliveryID    string     `json:"deliveryId,omitempty"`
	Address       Address    `json:"address"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Products = append([]LineItem(nil), o.Products...)
	return &c
}

// SetStatus moves the order to status. An order can only be marked delivered
// once a delivery person has been assigned.
func (o *Order) SetStatus(status Status) error {
	if status == StatusDelivered && o.DeliveryID == "" {
		return fmt.Errorf("order %s has no delivery person: %w", o.OrderID, errors.ErrInvalidArgument)
	}
	o.Status = status
	return nil
}

// Stats summarises a set of orders for the dashboard.
type Stats struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalSales     float64        `json:"totalSales"`
	PendingSales   float64        `json:"pendingSales"`
	CompletedSales float64        `json:"completedSales"`
	StatusCounts   map[Status]int `json:"statusCounts"`
}

// ComputeStats totals orders. Cancelled orders count towards TotalOrders and
// StatusCounts but not towards any sales figure.
func ComputeStats(list []*Order) Stats {
	stats := Stats{StatusCounts: make(map[Status]int, len(Statuses))}
	for _, st := range Statuses {
		stats.StatusCounts[st] = 0
	}
	for _, o := range list {
		stats.TotalOrders++
		stats.StatusCounts[o.Status]++
		switch o.Status {
		case StatusCancelled:
		case StatusDelivered:
			stats.TotalSales += o.TotalPrice
			stats.CompletedSales += o.TotalPrice
		default:
			stats.TotalSales += o.TotalPrice
			stats.PendingSales += o.TotalPrice
		}
	}
	return stats
}
