package repositories

import (
	"context"

	"erp/internal/models"
)

// StockFilter narrows a product listing by stock level.
type StockFilter string

const (
	StockAll        StockFilter = ""
	StockInStock    StockFilter = "in_stock"
	StockLow        StockFilter = "low_stock"
	StockOutOfStock StockFilter = "out_of_stock"
)

// ProductFilter parameterises ProductRepository.List.
type ProductFilter struct {
	Page              Page
	CategoryID        string
	Stock             StockFilter
	LowStockThreshold int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) (PageResult[models.Product], error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByIDForUpdate reads the product and locks its row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock removes quantity from stock only if enough is on hand.
	DecrementStock(ctx context.Context, id string, quantity int) error
	IncrementStock(ctx context.Context, id string, quantity int) error
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
	FindLowStock(ctx context.Context, threshold, limit int) ([]models.Product, error)
	FindInStock(ctx context.Context) ([]models.Product, error)
}
