package services

import (
	"context"

	"erp/internal/apperrors"
	"erp/internal/models"
	"erp/internal/repositories"
)

// UserService handles user administration. Registration lives in AuthService.
type UserService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ListUsers returns one page of users, newest first.
func (s *UserService) ListUsers(ctx context.Context, page repositories.Page) (repositories.PageResult[models.User], error) {
	return s.repo.List(ctx, page)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser changes the name, phone number and role of a user. An empty role keeps the current one.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User) error {
	if user.Role != "" && !user.Role.Valid() {
		return apperrors.Validation("unknown role %q", user.Role)
	}
	existing, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if user.Role == "" {
		user.Role = existing.Role
	}
	return s.repo.Update(ctx, user)
}

// DeleteUser removes a user and their addresses.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
