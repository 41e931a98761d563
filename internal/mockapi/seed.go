package mockapi

import (
	"fmt"

	"ecomstore/internal/models"

	"github.com/shopspring/decimal"
)

// Demo credentials created by SeedDemo.
const (
	DemoAdminEmail    = "admin@ecomstore.test"
	DemoCustomerEmail = "customer@ecomstore.test"
	DemoPassword      = "password123"
)

// SeedDemo creates an admin, a customer and a small catalog with a spread
// of stock levels.
func (s *Server) SeedDemo() error {
	if _, err := s.store.CreateUser("Store Admin", DemoAdminEmail, DemoPassword, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if _, err := s.store.CreateUser("Demo Customer", DemoCustomerEmail, DemoPassword, models.RoleCustomer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	categories := s.store.Categories()
	if len(categories) == 0 {
		return fmt.Errorf("no categories to attach products to")
	}

	demo := []struct {
		name, brand, price string
		stock              int
	}{
		{"Wireless Earbuds", "Boat", "1499", 42},
		{"Smart Watch", "Noise", "3999", 8},
		{"Bluetooth Speaker", "JBL", "5499", 3},
		{"Cotton T-Shirt", "Levis", "799", 0},
		{"Running Shoes", "Nike", "6999", 15},
		{"Cookware Set", "Prestige", "2499", 11},
	}
	for i, d := range demo {
		_, err := s.store.CreateProduct(models.ProductRequest{
			Name:          d.name,
			Description:   d.name + " from " + d.brand,
			Price:         decimal.RequireFromString(d.price),
			StockQuantity: d.stock,
			Brand:         d.brand,
			SKU:           fmt.Sprintf("SKU-%03d", i+1),
			CategoryID:    categories[i%len(categories)].ID,
		})
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", d.name, err)
		}
	}
	return nil
}
