package server

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

// DemoPassword is the password of every seeded non-admin account.
const DemoPassword = "Demo12345"

var demoUsers = []users.User{
	{Email: "courier.one@example.com", Name: "Omar Courier", Role: users.RoleDelivery},
	{Email: "courier.two@example.com", Name: "Mona Courier", Role: users.RoleDelivery},
	{Email: "support@example.com", Name: "Sara Support", Role: users.RoleCustomerService},
	{Email: "customer@example.com", Name: "Karim Customer", Role: users.RoleCustomer},
}

var demoProducts = []products.Product{
	{Name: "Desk Lamp", Description: "Adjustable LED desk lamp", Price: 39.5, Category: "Home", Vendor: "Lumen", Stock: 42, Sales: 120},
	{Name: "Floor Lamp", Description: "Arc floor lamp", Price: 129, Category: "Home", Vendor: "Lumen", Stock: 8, Sales: 31},
	{Name: "Wireless Mouse", Description: "Silent click mouse", Price: 24.99, Category: "Electronics", Vendor: "Clicky", Stock: 150, Sales: 412},
	{Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 89, Category: "Electronics", Vendor: "Clicky", Stock: 0, Sales: 77},
	{Name: "Espresso Cups", Description: "Set of four", Price: 18, Category: "Kitchen", Vendor: "Barista", Stock: 64, Sales: 59},
}

// seedDemoData fills empty repositories with a small data set so every dashboard
// screen has something to show.
func (s *Server) seedDemoData() error {
	existing, err := s.repos.Users.List()
	if err != nil {
		return err
	}
	if len(existing) > 1 {
		return nil // Already seeded
	}

	hash, err := users.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	now := jwt.NowTimeFunc()

	seeded := make(map[users.RoleType][]*users.User)
	for i := range demoUsers {
		u := demoUsers[i].Clone()
		u.PasswordHash = hash
		u.CreatedAt = now
		if err := s.repos.Users.Upsert(u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		seeded[u.Role] = append(seeded[u.Role], u)
	}

	catalogue := make([]*products.Product, 0, len(demoProducts))
	for i := range demoProducts {
		p := demoProducts[i].Clone()
		p.CreatedAt = now
		if err := s.repos.Products.Upsert(p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		catalogue = append(catalogue, p)
	}

	customer := seeded[users.RoleCustomer][0]
	courier := seeded[users.RoleDelivery][0]
	for i, status := range orders.Statuses {
		p := catalogue[i%len(catalogue)]
		qty := i + 1
		o := &orders.Order{
			OrderID: fmt.Sprintf("ORD-%d", 1001+i),
			UserID:  customer.ID,
			Products: []orders.LineItem{{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductPrice: p.Price,
				Quantity:     qty,
			}},
			TotalPrice:    p.Price * float64(qty),
			Status:        status,
			PaymentMethod: "cash",
			Address:       orders.Address{Street: "9 Nile St", City: "Cairo", Governorate: "Cairo"},
			CreatedAt:     now.Add(-time.Duration(len(orders.Statuses)-i) * time.Hour),
			UpdatedAt:     now,
		}
		if status == orders.StatusOutForDelivery || status == orders.StatusDelivered {
			o.DeliveryID = courier.ID
		}
		if err := s.repos.Orders.Upsert(o); err != nil {
			return fmt.Errorf("failed to seed order %s: %w", o.OrderID, err)
		}
	}
	return nil
}
