package services

import (
	"context"

	"erp/internal/apperrors"
	"erp/internal/models"
	"erp/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo              repositories.ProductRepository
	categories        repositories.CategoryRepository
	lowStockThreshold int
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, lowStockThreshold int) *ProductService {
	return &ProductService{
		repo:              repo,
		categories:        categories,
		lowStockThreshold: lowStockThreshold,
	}
}

// ListProducts returns one page of products, optionally filtered by category or stock level.
func (s *ProductService) ListProducts(ctx context.Context, page repositories.Page, categoryID string, stock repositories.StockFilter) (repositories.PageResult[models.Product], error) {
	switch stock {
	case repositories.StockAll, repositories.StockInStock, repositories.StockLow, repositories.StockOutOfStock:
	default:
		return repositories.PageResult[models.Product]{}, apperrors.Validation("unknown stock filter %q", stock)
	}
	return s.repo.List(ctx, repositories.ProductFilter{
		Page:              page,
		CategoryID:        categoryID,
		Stock:             stock,
		LowStockThreshold: s.lowStockThreshold,
	})
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// InStock lists the products that can currently be ordered.
func (s *ProductService) InStock(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindInStock(ctx)
}

// CreateProduct creates a new product in an existing category.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(ctx, product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct overwrites an existing product. Changing stock_quantity here is an
// administrative correction, not an order movement.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if err := s.check(ctx, product); err != nil {
		return err
	}
	product.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// StockStatus classifies a product against the configured low-stock threshold.
func (s *ProductService) StockStatus(p *models.Product) string {
	return p.StockStatus(s.lowStockThreshold)
}

func (s *ProductService) check(ctx context.Context, product *models.Product) error {
	if product.Price.IsNegative() {
		return apperrors.Validation("price must not be negative")
	}
	if product.Price.Exponent() < -2 && !product.Price.Equal(product.Price.Round(2)) {
		return apperrors.Validation("price %s has more than two decimal places", product.Price)
	}
	if product.StockQuantity < 0 {
		return apperrors.Validation("stock_quantity must not be negative")
	}
	if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
		return err
	}
	return nil
}
