package fakeorderrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/orders"
)

var _ orders.OrderRepo = (*FakeOrderRepo)(nil)

type FakeOrderRepo struct {
	orders map[string]*orders.Order
	lock   sync.RWMutex
}

func NewFakeOrderRepo() orders.OrderRepo {
	return &FakeOrderRepo{
		orders: make(map[string]*orders.Order),
	}
}

func (r *FakeOrderRepo) Upsert(order *orders.Order) error {
	if order.OrderID == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "order id is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders[order.OrderID] = order.Clone()
	return nil
}

func (r *FakeOrderRepo) Get(orderID string) (*orders.Order, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *FakeOrderRepo) List() ([]*orders.Order, error) {
	return r.filter(func(*orders.Order) bool { return true }), nil
}

func (r *FakeOrderRepo) ListByStatus(status orders.Status) ([]*orders.Order, error) {
	return r.filter(func(o *orders.Order) bool { return o.Status == status }), nil
}

// filter returns copies of the matching orders, newest first.
func (r *FakeOrderRepo) filter(keep func(*orders.Order) bool) []*orders.Order {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*orders.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			list = append(list, o.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].OrderID < list[j].OrderID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}
