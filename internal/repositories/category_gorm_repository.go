package repositories

import (
	"context"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// List returns a page of categories with the number of products in each.
func (r *GORMCategoryRepository) List(ctx context.Context, page Page) (PageResult[models.CategoryWithCount], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return PageResult[models.CategoryWithCount]{}, fmt.Errorf("failed to count categories: %w", translateError(err))
	}

	productCounts := r.db.Model(&models.Product{}).
		Select("category_id, COUNT(*) AS products_count").
		Group("category_id")

	var rows []models.CategoryWithCount
	err := r.db.WithContext(ctx).Table("categories").
		Select("categories.*, COALESCE(pc.products_count, 0) AS products_count").
		Joins("LEFT JOIN (?) AS pc ON pc.category_id = categories.id", productCounts).
		Scopes(page.scope).
		Order("categories.name").
		Scan(&rows).Error
	if err != nil {
		return PageResult[models.CategoryWithCount]{}, fmt.Errorf("failed to list categories: %w", translateError(err))
	}
	return newPageResult(rows, total, page), nil
}

// All returns every category ordered by name, for pickers.
func (r *GORMCategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", translateError(err))
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "category", id)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translateError(err))
	}
	return nil
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", category.ID).
		Select("name", "description", "updated_at").Updates(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s %w for update", category.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes the category; its products go with it.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s %w for deletion", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *GORMCategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", translateError(err))
	}
	return n, nil
}
