package orders_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	st, err := orders.ParseStatus("Out for Delivery")
	require.NoError(t, err)
	require.Equal(t, orders.StatusOutForDelivery, st)

	_, err = orders.ParseStatus("shipped")
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestOrder_SetStatus(t *testing.T) {
	o := &orders.Order{OrderID: "ORD-1", Status: orders.StatusPending}

	require.ErrorIs(t, o.SetStatus(orders.StatusDelivered), errors.ErrInvalidArgument)
	require.Equal(t, orders.StatusPending, o.Status)

	o.DeliveryID = "d1"
	require.NoError(t, o.SetStatus(orders.StatusDelivered))
	require.Equal(t, orders.StatusDelivered, o.Status)
}

func TestComputeStats(t *testing.T) {
	stats := orders.ComputeStats([]*orders.Order{
		{OrderID: "1", Status: orders.StatusPending, TotalPrice: 10},
		{OrderID: "2", Status: orders.StatusConfirmed, TotalPrice: 5.5},
		{OrderID: "3", Status: orders.StatusDelivered, TotalPrice: 20},
		{OrderID: "4", Status: orders.StatusCancelled, TotalPrice: 100},
	})

	require.Equal(t, 4, stats.TotalOrders)
	require.InDelta(t, 35.5, stats.TotalSales, 0.001)
	require.InDelta(t, 15.5, stats.PendingSales, 0.001)
	require.InDelta(t, 20, stats.CompletedSales, 0.001)
	require.Equal(t, map[orders.Status]int{
		orders.StatusPending:        1,
		orders.StatusConfirmed:      1,
		orders.StatusOutForDelivery: 0,
		orders.StatusDelivered:      1,
		orders.StatusCancelled:      1,
	}, stats.StatusCounts)

	empty := orders.ComputeStats(nil)
	require.Zero(t, empty.TotalOrders)
	require.Len(t, empty.StatusCounts, len(orders.Statuses))
}
