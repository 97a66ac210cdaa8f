package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order. UnitPrice is the product price when the order was placed.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Order represents a customer order.
type Order struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber       string          `json:"order_number" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID            string          `json:"user_id" gorm:"type:varchar(36);not null;index:idx_orders_user_status"`
	User              *User           `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ShippingAddressID string          `json:"shipping_address_id" gorm:"type:varchar(36);not null"`
	ShippingAddress   *UserAddress    `json:"shipping_address,omitempty" gorm:"foreignKey:ShippingAddressID"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:pending;index;index:idx_orders_user_status;index:idx_orders_status_created"`
	TotalAmount       decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Items             []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `json:"created_at" gorm:"index:idx_orders_status_created"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CanBeCancelled reports whether deleting the order should return its stock.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}

// CanBeShipped reports whether the order is paid and waiting to ship.
func (o *Order) CanBeShipped() bool {
	return o.Status == OrderStatusPaid
}

// CanBeCompleted reports whether the order has shipped.
func (o *Order) CanBeCompleted() bool {
	return o.Status == OrderStatusShipped
}

// CanTransitionTo reports whether the order may move to next. Every forward step is gated by
// its capability check; completed and cancelled orders accept no transition.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderStatusPaid:
		return o.Status == OrderStatusPending
	case OrderStatusShipped:
		return o.CanBeShipped()
	case OrderStatusCompleted:
		return o.CanBeCompleted()
	case OrderStatusCancelled:
		return o.CanBeCancelled()
	}
	return false
}

// ItemsTotal sums the subtotals of the loaded items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}
