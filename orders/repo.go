package orders

// OrderRepo stores orders keyed by OrderID.
type OrderRepo interface {
	Upsert(order *Order) error
	Get(orderID string) (*Order, error)
	List() ([]*Order, error)
	ListByStatus(status Status) ([]*Order, error)
}
