package app

import (
	"context"
	"fmt"

	"erp/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Demo accounts created by Seed.
const (
	DemoAdminEmail    = "admin@example.com"
	DemoCustomerEmail = "customer@example.com"
	DemoPassword      = "password123"
)

type seedProduct struct {
	category string
	name     string
	sku      string
	price    string
	stock    int
}

var demoProducts = []seedProduct{
	{"Electronics", "Laptop 14\"", "LAP-001", "1199.99", 15},
	{"Electronics", "Wireless Mouse", "MOU-001", "24.50", 50},
	{"Electronics", "Mechanical Keyboard", "KEY-001", "89.00", 8},
	{"Electronics", "USB-C Hub", "HUB-001", "39.99", 0},
	{"Office Supplies", "A4 Paper (500 sheets)", "PAP-001", "7.25", 120},
	{"Office Supplies", "Stapler", "STA-001", "12.00", 4},
}

// Seed fills an empty database with demo users, an address, categories and products.
// It does nothing when any user exists.
func Seed(ctx context.Context, svc *Services) error {
	n, err := svc.Repos.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("users", n).Msg("database not empty, skipping demo data")
		return nil
	}

	admin := &models.User{Name: "Administrator", Email: DemoAdminEmail, Password: DemoPassword, Role: models.RoleAdmin}
	if err := svc.Auth.RegisterUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	customer := &models.User{Name: "Demo Customer", Email: DemoCustomerEmail, PhoneNumber: "+1 613 555 0100", Password: DemoPassword}
	if err := svc.Auth.RegisterUser(ctx, customer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}
	if err := svc.Addresses.CreateAddress(ctx, customer.ID, &models.UserAddress{
		Label: "Home", AddressLine: "24 Sussex Dr", City: "Ottawa", Province: "ON", PostalCode: "K1M 1M4", IsDefault: true,
	}); err != nil {
		return fmt.Errorf("failed to seed address: %w", err)
	}

	categories := map[string]*models.Category{}
	for _, p := range demoProducts {
		category, ok := categories[p.category]
		if !ok {
			category = &models.Category{Name: p.category}
			if err := svc.Categories.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", p.category, err)
			}
			categories[p.category] = category
		}
		product := &models.Product{
			CategoryID:    category.ID,
			Name:          p.name,
			SKU:           p.sku,
			Price:         decimal.RequireFromString(p.price),
			StockQuantity: p.stock,
		}
		if err := svc.Products.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.sku, err)
		}
	}

	log.Info().Int("products", len(demoProducts)).Int("categories", len(categories)).Msg("demo data seeded")
	return nil
}
