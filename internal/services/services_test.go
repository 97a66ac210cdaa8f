package services_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"erp/internal/models"
	"erp/internal/repositories"
	"erp/internal/testutil"
	"erp/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// fixture is a fresh sqlite database plus helpers to seed it.
type fixture struct {
	t     testing.TB
	ctx   context.Context
	db    *gorm.DB
	repos *repositories.Repositories
	tx    *repositories.GORMTransactor
}

func newFixture(t testing.TB) *fixture {
	db := testutil.NewSQLiteDB(t)
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		repos: repositories.NewGORMRepositories(db),
		tx:    repositories.NewGORMTransactor(db),
	}
}

func (f *fixture) category(name string) *models.Category {
	c := &models.Category{Name: name}
	require.NoError(f.t, f.repos.Categories.Create(f.ctx, c))
	return c
}

func (f *fixture) product(categoryID, sku string, stock int, price string) *models.Product {
	p := &models.Product{
		CategoryID:    categoryID,
		Name:          "Product " + sku,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(f.t, f.repos.Products.Create(f.ctx, p))
	return p
}

func (f *fixture) user(email string) *models.User {
	u := &models.User{Name: "User " + email, Email: email, Password: "hash", Role: models.RoleCustomer}
	require.NoError(f.t, f.repos.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) address(userID, label string) *models.UserAddress {
	a := &models.UserAddress{
		UserID: userID, Label: label, AddressLine: "1 Main St", City: "Ottawa", Province: "ON", PostalCode: "K1A 0A1",
	}
	require.NoError(f.t, f.repos.Addresses.Create(f.ctx, a))
	return a
}

func (f *fixture) stock(productID string) int {
	p, err := f.repos.Products.GetByID(f.ctx, productID)
	require.NoError(f.t, err)
	return p.StockQuantity
}

func (f *fixture) count(model any) int64 {
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}

// recordingPublisher collects published events and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []rabbitmq.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(event rabbitmq.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []rabbitmq.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []rabbitmq.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
