package repositories

import (
	"context"

	"erp/internal/models"
)

// AddressRepository defines the interface for user address data access.
type AddressRepository interface {
	Create(ctx context.Context, address *models.UserAddress) error
	GetByID(ctx context.Context, id string) (*models.UserAddress, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserAddress, error)
	Update(ctx context.Context, address *models.UserAddress) error
	Delete(ctx context.Context, id string) error
	// ClearDefault unsets is_default on every address of userID except exceptID.
	ClearDefault(ctx context.Context, userID, exceptID string) error
	MarkDefault(ctx context.Context, id string) error
	CountDefaults(ctx context.Context, userID string) (int64, error)
}
