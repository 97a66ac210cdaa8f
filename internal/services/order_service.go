package services

import (
	"context"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/models"
	"erp/internal/repositories"
	"erp/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderInput describes an order to place for UserID.
type PlaceOrderInput struct {
	UserID            string      `json:"user_id"`
	ShippingAddressID string      `json:"shipping_address_id" validate:"required"`
	Items             []OrderLine `json:"items" validate:"required,min=1,dive"`
}

func (in PlaceOrderInput) check() error {
	if in.UserID == "" {
		return apperrors.Validation("user_id is required")
	}
	if in.ShippingAddressID == "" {
		return apperrors.Validation("shipping_address_id is required")
	}
	if len(in.Items) == 0 {
		return apperrors.Validation("an order needs at least one item")
	}
	for i, line := range in.Items {
		if line.ProductID == "" {
			return apperrors.Validation("item %d: product_id is required", i)
		}
		if line.Quantity <= 0 {
			return apperrors.Validation("item %d: quantity must be positive, got %d", i, line.Quantity)
		}
	}
	return nil
}

// DeletedOrder is the result of DeleteOrder.
type DeletedOrder struct {
	Order         *models.Order `json:"order"`
	StockRestored bool          `json:"stock_restored"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	repos   *repositories.Repositories
	tx      repositories.Transactor
	numbers *OrderNumberGenerator
	events  EventPublisher
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(repos *repositories.Repositories, tx repositories.Transactor, numbers *OrderNumberGenerator, events EventPublisher) *OrderService {
	return &OrderService{
		repos:   repos,
		tx:      tx,
		numbers: numbers,
		events:  events,
	}
}

// PlaceOrder creates the order, its items and the stock decrements in one transaction.
// Nothing is persisted unless every line item succeeds.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		order, err := s.PlaceOrderTx(ctx, tx, in)
		if err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	log.Info().Str("order_id", placed.ID).Str("order_number", placed.OrderNumber).
		Str("user_id", placed.UserID).Str("total", placed.TotalAmount.StringFixed(2)).
		Int("items", len(placed.Items)).Msg("order placed")
	publishOrderEvent(s.events, rabbitmq.EventOrderPlaced, placed, "", false)
	return placed, nil
}

// PlaceOrderTx places an order inside a transaction the caller already holds. Any error
// leaves partial writes in tx that the caller must roll back.
func (s *OrderService) PlaceOrderTx(ctx context.Context, tx *repositories.Repositories, in PlaceOrderInput) (*models.Order, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if _, err := tx.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	address, err := tx.Addresses.GetByID(ctx, in.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != in.UserID {
		return nil, fmt.Errorf("address %s of user %s: %w", in.ShippingAddressID, in.UserID, apperrors.ErrNotFound)
	}

	number, err := s.numbers.Generate(ctx, tx.Orders.ExistsByOrderNumber)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:       number,
		UserID:            in.UserID,
		ShippingAddressID: address.ID,
		Status:            models.OrderStatusPending,
		TotalAmount:       decimal.Zero,
	}
	if err := tx.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range in.Items {
		product, err := tx.Products.GetByIDForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < line.Quantity {
			return nil, &apperrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.StockQuantity,
			}
		}

		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if err := tx.Orders.CreateItem(ctx, &item); err != nil {
			return nil, err
		}
		if err := tx.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		product.StockQuantity -= line.Quantity
		item.Product = product

		order.Items = append(order.Items, item)
		total = total.Add(item.Subtotal)
	}

	if err := tx.Orders.UpdateTotal(ctx, order.ID, total); err != nil {
		return nil, err
	}
	order.TotalAmount = total
	return order, nil
}

// DeleteOrder removes an order. Pending and paid orders give their quantities back to stock
// first; shipped, completed and cancelled orders are removed without restoration.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*DeletedOrder, error) {
	var deleted *DeletedOrder
	err := s.tx.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		d, err := s.DeleteOrderTx(ctx, tx, id)
		if err != nil {
			return err
		}
		deleted = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	log.Info().Str("order_id", id).Str("status", string(deleted.Order.Status)).
		Bool("stock_restored", deleted.StockRestored).Msg("order deleted")
	publishOrderEvent(s.events, rabbitmq.EventOrderDeleted, deleted.Order, "", deleted.StockRestored)
	return deleted, nil
}

// DeleteOrderTx deletes an order inside a transaction the caller already holds.
func (s *OrderService) DeleteOrderTx(ctx context.Context, tx *repositories.Repositories, id string) (*DeletedOrder, error) {
	order, err := tx.Orders.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	restored := false
	if order.CanBeCancelled() {
		for _, item := range order.Items {
			if err := tx.Products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return nil, err
			}
		}
		restored = len(order.Items) > 0
	}

	if err := tx.Orders.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeletedOrder{Order: order, StockRestored: restored}, nil
}

// UpdateOrderStatus moves an order along the status machine. It never touches stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("unknown order status %q", status)
	}

	var previous models.OrderStatus
	err := s.tx.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		order, err := tx.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !order.CanTransitionTo(status) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w", order.OrderNumber, order.Status, status, apperrors.ErrInvalidTransition)
		}
		previous = order.Status
		return tx.Orders.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, err)
	}

	order, err := s.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("order_id", id).Str("from", string(previous)).Str("to", string(status)).Msg("order status changed")
	publishOrderEvent(s.events, rabbitmq.EventOrderStatusChanged, order, previous, false)
	return order, nil
}

// GetOrder loads an order with its buyer, shipping address and items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.repos.Orders.GetByID(ctx, id)
}

// ListOrders returns one page of orders.
func (s *OrderService) ListOrders(ctx context.Context, filter repositories.OrderFilter) (repositories.PageResult[models.Order], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return repositories.PageResult[models.Order]{}, apperrors.Validation("unknown order status %q", filter.Status)
	}
	return s.repos.Orders.List(ctx, filter)
}
