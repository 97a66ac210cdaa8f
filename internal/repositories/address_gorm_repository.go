package repositories

import (
	"context"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.UserAddress) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", translateError(err))
	}
	return nil
}

func (r *GORMAddressRepository) GetByID(ctx context.Context, id string) (*models.UserAddress, error) {
	var address models.UserAddress
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "address", id)
	}
	return &address, nil
}

// ListByUser returns the user's addresses with the default first.
func (r *GORMAddressRepository) ListByUser(ctx context.Context, userID string) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at").Order("id").
		Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses of user %s: %w", userID, translateError(err))
	}
	return addresses, nil
}

// Update writes the address fields. is_default is only changed through MarkDefault/ClearDefault.
func (r *GORMAddressRepository) Update(ctx context.Context, address *models.UserAddress) error {
	res := r.db.WithContext(ctx).Model(&models.UserAddress{}).Where("id = ?", address.ID).
		Select("label", "address_line", "city", "province", "postal_code", "country", "updated_at").
		Updates(address)
	if res.Error != nil {
		return fmt.Errorf("failed to update address: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s %w for update", address.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes an address. Addresses used by orders cannot be deleted.
func (r *GORMAddressRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.UserAddress{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s %w for deletion", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *GORMAddressRepository) ClearDefault(ctx context.Context, userID, exceptID string) error {
	err := r.db.WithContext(ctx).Model(&models.UserAddress{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, exceptID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default address of user %s: %w", userID, translateError(err))
	}
	return nil
}

func (r *GORMAddressRepository) MarkDefault(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.UserAddress{}).Where("id = ?", id).Update("is_default", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark address %s as default: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("address", id)
	}
	return nil
}

func (r *GORMAddressRepository) CountDefaults(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count default addresses: %w", translateError(err))
	}
	return n, nil
}
