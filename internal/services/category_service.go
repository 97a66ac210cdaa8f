package services

import (
	"context"

	"erp/internal/models"
	"erp/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListCategories returns one page of categories with their product counts.
func (s *CategoryService) ListCategories(ctx context.Context, page repositories.Page) (repositories.PageResult[models.CategoryWithCount], error) {
	return s.repo.List(ctx, page)
}

// AllCategories returns every category by name, for pickers.
func (s *CategoryService) AllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.All(ctx)
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.repo.Create(ctx, category)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category *models.Category) error {
	existing, err := s.repo.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}
	category.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, category)
}

// DeleteCategory deletes a category together with its products.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
