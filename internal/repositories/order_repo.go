package repositories

import (
	"context"
	"time"

	"erp/internal/models"

	"github.com/shopspring/decimal"
)

// OrderFilter parameterises OrderRepository.List.
type OrderFilter struct {
	Page   Page
	UserID string
	Status models.OrderStatus
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order header only; items are added with CreateItem.
	Create(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	// GetByID loads the order with buyer, shipping address and items with their products.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetByIDForUpdate locks the order row and loads its items.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Order, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	// Delete removes the order and its items.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter OrderFilter) (PageResult[models.Order], error)
	FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	FindPending(ctx context.Context) ([]models.Order, error)
	FindRecent(ctx context.Context, limit int) ([]models.Order, error)
	FindCompletedSince(ctx context.Context, since time.Time) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	CountsByStatus(ctx context.Context) ([]StatusCount, error)
	SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error)
}
