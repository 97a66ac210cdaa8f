package services

import (
	"context"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/models"
	"erp/internal/repositories"
)

// AddressService manages a user's shipping addresses and keeps at most one of them default.
type AddressService struct {
	repos *repositories.Repositories
	tx    repositories.Transactor
}

// NewAddressService creates a new AddressService.
func NewAddressService(repos *repositories.Repositories, tx repositories.Transactor) *AddressService {
	return &AddressService{repos: repos, tx: tx}
}

// ListAddresses returns the user's addresses, default first.
func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]models.UserAddress, error) {
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repos.Addresses.ListByUser(ctx, userID)
}

// GetAddress returns one address of userID.
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID string) (*models.UserAddress, error) {
	return ownedAddress(ctx, s.repos, userID, addressID)
}

// CreateAddress stores a new address for userID. An address created as default goes
// through the same path as SetAsDefault.
func (s *AddressService) CreateAddress(ctx context.Context, userID string, address *models.UserAddress) error {
	address.UserID = userID
	makeDefault := address.IsDefault
	address.IsDefault = false

	err := s.tx.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if _, err := tx.Users.GetByIDForUpdate(ctx, userID); err != nil {
			return err
		}
		if err := tx.Addresses.Create(ctx, address); err != nil {
			return err
		}
		if !makeDefault {
			return nil
		}
		return setDefaultTx(ctx, tx, address)
	})
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// UpdateAddress writes the address fields. The default flag is only changed by SetAsDefault.
func (s *AddressService) UpdateAddress(ctx context.Context, userID string, address *models.UserAddress) error {
	existing, err := ownedAddress(ctx, s.repos, userID, address.ID)
	if err != nil {
		return err
	}
	address.UserID = existing.UserID
	address.IsDefault = existing.IsDefault
	address.CreatedAt = existing.CreatedAt
	return s.repos.Addresses.Update(ctx, address)
}

// DeleteAddress removes an address. Addresses referenced by orders cannot be removed.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := ownedAddress(ctx, s.repos, userID, addressID); err != nil {
		return err
	}
	return s.repos.Addresses.Delete(ctx, addressID)
}

// SetAsDefault makes addressID the user's only default address.
func (s *AddressService) SetAsDefault(ctx context.Context, userID, addressID string) (*models.UserAddress, error) {
	var address *models.UserAddress
	err := s.tx.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		a, err := s.SetAsDefaultTx(ctx, tx, userID, addressID)
		if err != nil {
			return err
		}
		address = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set default address: %w", err)
	}
	return address, nil
}

// SetAsDefaultTx is SetAsDefault inside a transaction the caller already holds.
func (s *AddressService) SetAsDefaultTx(ctx context.Context, tx *repositories.Repositories, userID, addressID string) (*models.UserAddress, error) {
	if _, err := tx.Users.GetByIDForUpdate(ctx, userID); err != nil {
		return nil, err
	}
	address, err := ownedAddress(ctx, tx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := setDefaultTx(ctx, tx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func setDefaultTx(ctx context.Context, tx *repositories.Repositories, address *models.UserAddress) error {
	if err := tx.Addresses.ClearDefault(ctx, address.UserID, address.ID); err != nil {
		return err
	}
	if err := tx.Addresses.MarkDefault(ctx, address.ID); err != nil {
		return err
	}
	address.IsDefault = true
	return nil
}

func ownedAddress(ctx context.Context, repos *repositories.Repositories, userID, addressID string) (*models.UserAddress, error) {
	address, err := repos.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address %s of user %s: %w", addressID, userID, apperrors.ErrNotFound)
	}
	return address, nil
}
