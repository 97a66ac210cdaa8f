package models

import "time"

// Role is the user's access level in the back office.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// IsStaff is true for roles that manage the back office.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User represents a back-office user or customer.
type User struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=2,max=255"`
	Email       string        `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	PhoneNumber string        `json:"phone_number" gorm:"type:varchar(32)" validate:"omitempty,max=32"`
	Role        Role          `json:"role" gorm:"type:varchar(20);not null;default:customer" validate:"omitempty,oneof=admin staff customer"`
	Password    string        `json:"-" gorm:"type:varchar(255);not null"`
	Addresses   []UserAddress `json:"addresses,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" validate:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
