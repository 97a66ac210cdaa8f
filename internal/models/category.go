package models

import "time"

// Category groups products.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=2,max=255"`
	Description string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCount is a category plus the number of products filed under it.
type CategoryWithCount struct {
	Category
	ProductsCount int64 `json:"products_count"`
}
