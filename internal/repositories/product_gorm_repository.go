package repositories

import (
	"context"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func lowStockScope(threshold int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("stock_quantity > 0 AND stock_quantity <= ?", threshold)
	}
}

// List returns one page of products, newest first, with their categories.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) (PageResult[models.Product], error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	switch filter.Stock {
	case StockInStock:
		query = query.Where("stock_quantity > 0")
	case StockLow:
		query = query.Scopes(lowStockScope(filter.LowStockThreshold))
	case StockOutOfStock:
		query = query.Where("stock_quantity = 0")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PageResult[models.Product]{}, fmt.Errorf("failed to count products: %w", translateError(err))
	}

	var products []models.Product
	if err := query.Preload("Category").Scopes(filter.Page.scope).
		Order("created_at DESC").Order("id").Find(&products).Error; err != nil {
		return PageResult[models.Product]{}, fmt.Errorf("failed to list products: %w", translateError(err))
	}
	return newPageResult(products, total, filter.Page), nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return &product, nil
}

// GetByIDForUpdate retrieves a product with SELECT ... FOR UPDATE. Dialects without
// row locks (sqlite) drop the clause and rely on the writer lock of the transaction.
func (r *GORMProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translateError(err))
	}
	return nil
}

// Update writes every column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).
		Select("category_id", "name", "sku", "description", "price", "stock_quantity", "updated_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for update", product.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for deletion", id, apperrors.ErrNotFound)
	}
	return nil
}

// DecrementStock is a conditional update: it never takes stock below zero. A zero-row result
// means another writer took the stock after the caller checked it.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of product %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock of product %s changed concurrently: %w", id, apperrors.ErrConcurrencyConflict)
	}
	return nil
}

// IncrementStock adds quantity back to stock.
func (r *GORMProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock of product %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", translateError(err))
	}
	return n, nil
}

func (r *GORMProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(lowStockScope(threshold)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", translateError(err))
	}
	return n, nil
}

func (r *GORMProductRepository) CountOutOfStock(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock_quantity = 0").Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count out of stock products: %w", translateError(err))
	}
	return n, nil
}

// FindLowStock returns the products closest to running out first.
func (r *GORMProductRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Scopes(lowStockScope(threshold)).
		Order("stock_quantity ASC").Order("name").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find low stock products: %w", translateError(err))
	}
	return products, nil
}

// FindInStock returns every product that can currently be ordered.
func (r *GORMProductRepository) FindInStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("stock_quantity > 0").
		Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find in stock products: %w", translateError(err))
	}
	return products, nil
}
