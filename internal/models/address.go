package models

import (
	"fmt"
	"time"
)

// DefaultCountry is used when an address is created without one.
const DefaultCountry = "Canada"

// UserAddress is a shipping destination owned by a user.
type UserAddress struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index;index:idx_addresses_user_default"`
	Label       string    `json:"label" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	AddressLine string    `json:"address_line" gorm:"type:text;not null" validate:"required"`
	City        string    `json:"city" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Province    string    `json:"province" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	PostalCode  string    `json:"postal_code" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	Country     string    `json:"country" gorm:"type:varchar(100);not null;default:Canada" validate:"omitempty,max=100"`
	IsDefault   bool      `json:"is_default" gorm:"not null;default:false;index:idx_addresses_user_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress renders the address on one line.
func (a *UserAddress) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.AddressLine, a.City, a.Province, a.PostalCode, a.Country)
}
