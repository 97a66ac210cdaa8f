package repositories

import (
	"context"
	"fmt"
	"time"

	"erp/internal/apperrors"
	"erp/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("ShippingAddress").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at").Order("id") }).
		Preload("Items.Product").Preload("Items.Product.Category")
}

func withOrderSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("ShippingAddress")
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translateError(err))
	}
	return nil
}

func (r *GORMOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create order item: %w", translateError(err))
	}
	return nil
}

func (r *GORMOrderRepository) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("total_amount", total)
	if res.Error != nil {
		return fmt.Errorf("failed to update total of order %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("order", id)
	}
	return nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s %w for status update", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Scopes(withOrderDetails).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("created_at").Order("id").
		Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items of order %s: %w", id, translateError(err))
	}
	return &order, nil
}

func (r *GORMOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", orderNumber).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check order number %s: %w", orderNumber, translateError(err))
	}
	return n > 0, nil
}

// Delete removes the items explicitly so the result does not depend on the dialect enforcing ON DELETE CASCADE.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete items of order %s: %w", id, translateError(err))
	}
	res := db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s %w for deletion", id, apperrors.ErrNotFound)
	}
	return nil
}

// List returns one page of orders, latest first, with buyer and shipping address.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) (PageResult[models.Order], error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PageResult[models.Order]{}, fmt.Errorf("failed to count orders: %w", translateError(err))
	}
	var orders []models.Order
	if err := query.Scopes(withOrderSummary, filter.Page.scope).
		Order("created_at DESC").Order("id").Find(&orders).Error; err != nil {
		return PageResult[models.Order]{}, fmt.Errorf("failed to list orders: %w", translateError(err))
	}
	return newPageResult(orders, total, filter.Page), nil
}

func (r *GORMOrderRepository) FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Scopes(withOrderSummary).Where("status = ?", status).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s orders: %w", status, translateError(err))
	}
	return orders, nil
}

func (r *GORMOrderRepository) FindPending(ctx context.Context) ([]models.Order, error) {
	return r.FindByStatus(ctx, models.OrderStatusPending)
}

func (r *GORMOrderRepository) FindRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Scopes(withOrderSummary).
		Order("created_at DESC").Order("id").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent orders: %w", translateError(err))
	}
	return orders, nil
}

// FindCompletedSince returns completed orders created at or after since, oldest first.
func (r *GORMOrderRepository) FindCompletedSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, since).
		Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find completed orders: %w", translateError(err))
	}
	return orders, nil
}

func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", translateError(err))
	}
	return n, nil
}

func (r *GORMOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s orders: %w", status, translateError(err))
	}
	return n, nil
}

func (r *GORMOrderRepository) CountsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	if err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Order("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", translateError(err))
	}
	return counts, nil
}

func (r *GORMOrderRepository) SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_amount)").Where("status = ?", models.OrderStatusCompleted).Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum completed revenue: %w", translateError(err))
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Round(2), nil
}
