package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an inventory item.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CategoryID    string          `json:"category_id" gorm:"type:varchar(36);not null;index:idx_products_category_name" validate:"required"`
	Category      *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null;index:idx_products_category_name" validate:"required,min=2,max=255"`
	SKU           string          `json:"sku" gorm:"column:sku;type:varchar(64);uniqueIndex;not null" validate:"required,max=64"`
	Description   string          `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" validate:"-"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0;index" validate:"gte=0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockStatus classifies the product's stock level against a low-stock threshold.
func (p *Product) StockStatus(lowStockThreshold int) string {
	switch {
	case p.StockQuantity <= 0:
		return "out_of_stock"
	case p.StockQuantity <= lowStockThreshold:
		return "low_stock"
	default:
		return "in_stock"
	}
}
