package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"erp/internal/apperrors"
	"erp/internal/models"
	"erp/internal/repositories"
	"erp/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositoriesTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	repos *repositories.Repositories

	category *models.Category
	user     *models.User
	address  *models.UserAddress
}

func TestRepositoriesSuite(t *testing.T) {
	suite.Run(t, new(RepositoriesTestSuite))
}

// SetupTest gives every test a fresh database with one category, user and address.
func (s *RepositoriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewSQLiteDB(s.T())
	s.repos = repositories.NewGORMRepositories(s.db)

	s.category = &models.Category{Name: "Electronics"}
	s.Require().NoError(s.repos.Categories.Create(s.ctx, s.category))

	s.user = &models.User{Name: "Buyer", Email: "Buyer@Example.com", Password: "hash", Role: models.RoleCustomer}
	s.Require().NoError(s.repos.Users.Create(s.ctx, s.user))

	s.address = &models.UserAddress{UserID: s.user.ID, Label: "home", AddressLine: "1 Main St", City: "Ottawa", Province: "ON", PostalCode: "K1A 0A1"}
	s.Require().NoError(s.repos.Addresses.Create(s.ctx, s.address))
}

func (s *RepositoriesTestSuite) createProduct(sku string, stock int, price string) *models.Product {
	p := &models.Product{
		CategoryID:    s.category.ID,
		Name:          "Product " + sku,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	s.Require().NoError(s.repos.Products.Create(s.ctx, p))
	return p
}

func (s *RepositoriesTestSuite) createOrder(status models.OrderStatus, total string) *models.Order {
	o := &models.Order{
		OrderNumber:       "ORD-" + uuid.NewString(),
		UserID:            s.user.ID,
		ShippingAddressID: s.address.ID,
		Status:            status,
		TotalAmount:       decimal.RequireFromString(total),
	}
	s.Require().NoError(s.repos.Orders.Create(s.ctx, o))
	return o
}

func (s *RepositoriesTestSuite) TestProduct_CRUDAndNotFound() {
	p := s.createProduct("SKU-1", 5, "10.00")
	s.NotEmpty(p.ID)

	got, err := s.repos.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("SKU-1", got.SKU)
	s.Equal("10.00", got.Price.StringFixed(2))
	s.Require().NotNil(got.Category)
	s.Equal("Electronics", got.Category.Name)

	got.Name = "Renamed"
	got.StockQuantity = 7
	s.Require().NoError(s.repos.Products.Update(s.ctx, got))
	got, err = s.repos.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal(7, got.StockQuantity)

	_, err = s.repos.Products.GetByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Require().NoError(s.repos.Products.Delete(s.ctx, p.ID))
	s.ErrorIs(s.repos.Products.Delete(s.ctx, p.ID), apperrors.ErrNotFound)
}

func (s *RepositoriesTestSuite) TestProduct_DuplicateSKUIsConstraintViolation() {
	s.createProduct("SKU-DUP", 1, "1.00")
	dup := &models.Product{CategoryID: s.category.ID, Name: "Other", SKU: "SKU-DUP", Price: decimal.NewFromInt(2)}
	err := s.repos.Products.Create(s.ctx, dup)
	s.ErrorIs(err, apperrors.ErrConstraintViolation)
}

func (s *RepositoriesTestSuite) TestProduct_DecrementStockNeverGoesNegative() {
	p := s.createProduct("SKU-STOCK", 3, "1.00")

	s.Require().NoError(s.repos.Products.DecrementStock(s.ctx, p.ID, 2))
	err := s.repos.Products.DecrementStock(s.ctx, p.ID, 2)
	s.ErrorIs(err, apperrors.ErrConcurrencyConflict)

	got, err := s.repos.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(1, got.StockQuantity)

	s.Require().NoError(s.repos.Products.IncrementStock(s.ctx, p.ID, 4))
	got, err = s.repos.Products.GetByIDForUpdate(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(5, got.StockQuantity)

	s.ErrorIs(s.repos.Products.IncrementStock(s.ctx, "missing", 1), apperrors.ErrNotFound)
}

func (s *RepositoriesTestSuite) TestProduct_StockQueries() {
	s.createProduct("SKU-OUT", 0, "1.00")
	s.createProduct("SKU-LOW-1", 1, "1.00")
	s.createProduct("SKU-LOW-5", 5, "1.00")
	s.createProduct("SKU-MID", 8, "1.00")
	s.createProduct("SKU-HIGH", 50, "1.00")

	low, err := s.repos.Products.CountLowStock(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(2, low)

	low, err = s.repos.Products.CountLowStock(s.ctx, 10)
	s.Require().NoError(err)
	s.EqualValues(3, low)

	out, err := s.repos.Products.CountOutOfStock(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, out)

	lowest, err := s.repos.Products.FindLowStock(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.Require().Len(lowest, 2)
	s.Equal("SKU-LOW-1", lowest[0].SKU)
	s.Equal("SKU-LOW-5", lowest[1].SKU)

	inStock, err := s.repos.Products.FindInStock(s.ctx)
	s.Require().NoError(err)
	s.Len(inStock, 4)

	page, err := s.repos.Products.List(s.ctx, repositories.ProductFilter{
		Page:              repositories.Page{Number: 1, PerPage: 2},
		Stock:             repositories.StockLow,
		LowStockThreshold: 10,
	})
	s.Require().NoError(err)
	s.EqualValues(3, page.Total)
	s.Len(page.Data, 2)
	s.Equal(2, page.LastPage)

	page, err = s.repos.Products.List(s.ctx, repositories.ProductFilter{Stock: repositories.StockOutOfStock})
	s.Require().NoError(err)
	s.EqualValues(1, page.Total)
	s.Equal("SKU-OUT", page.Data[0].SKU)
}

func (s *RepositoriesTestSuite) TestCategory_ListWithProductCounts() {
	empty := &models.Category{Name: "Books"}
	s.Require().NoError(s.repos.Categories.Create(s.ctx, empty))
	s.createProduct("SKU-A", 1, "1.00")
	s.createProduct("SKU-B", 1, "1.00")

	page, err := s.repos.Categories.List(s.ctx, repositories.Page{})
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)
	s.Require().Len(page.Data, 2)
	s.Equal("Books", page.Data[0].Name)
	s.EqualValues(0, page.Data[0].ProductsCount)
	s.Equal("Electronics", page.Data[1].Name)
	s.EqualValues(2, page.Data[1].ProductsCount)

	n, err := s.repos.Categories.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)
}

func (s *RepositoriesTestSuite) TestUser_EmailIsNormalisedAndUnique() {
	got, err := s.repos.Users.GetByEmail(s.ctx, "  buyer@example.COM ")
	s.Require().NoError(err)
	s.Equal(s.user.ID, got.ID)

	err = s.repos.Users.Create(s.ctx, &models.User{Name: "Dup", Email: "buyer@example.com", Password: "x"})
	s.ErrorIs(err, apperrors.ErrConstraintViolation)

	_, err = s.repos.Users.GetByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepositoriesTestSuite) TestAddress_DefaultHelpers() {
	second := &models.UserAddress{UserID: s.user.ID, Label: "office", AddressLine: "2 Bay St", City: "Toronto", Province: "ON", PostalCode: "M5J 2N8", IsDefault: true}
	s.Require().NoError(s.repos.Addresses.Create(s.ctx, second))
	s.Equal(models.DefaultCountry, second.Country)

	s.Require().NoError(s.repos.Addresses.MarkDefault(s.ctx, s.address.ID))
	n, err := s.repos.Addresses.CountDefaults(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.EqualValues(2, n)

	s.Require().NoError(s.repos.Addresses.ClearDefault(s.ctx, s.user.ID, s.address.ID))
	list, err := s.repos.Addresses.ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(s.address.ID, list[0].ID)
	s.True(list[0].IsDefault)
	s.False(list[1].IsDefault)
}

func (s *RepositoriesTestSuite) TestOrder_TypedQueries() {
	s.createOrder(models.OrderStatusPending, "10.00")
	s.createOrder(models.OrderStatusPending, "5.00")
	s.createOrder(models.OrderStatusCompleted, "30.10")
	s.createOrder(models.OrderStatusCompleted, "12.25")
	s.createOrder(models.OrderStatusCancelled, "99.00")

	pending, err := s.repos.Orders.FindPending(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 2)
	s.Require().NotNil(pending[0].User)
	s.Equal(s.user.ID, pending[0].User.ID)

	revenue, err := s.repos.Orders.SumCompletedRevenue(s.ctx)
	s.Require().NoError(err)
	s.Equal("42.35", revenue.StringFixed(2))

	n, err := s.repos.Orders.CountByStatus(s.ctx, models.OrderStatusCancelled)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	counts, err := s.repos.Orders.CountsByStatus(s.ctx)
	s.Require().NoError(err)
	byStatus := map[models.OrderStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	s.Equal(map[models.OrderStatus]int64{
		models.OrderStatusPending:   2,
		models.OrderStatusCompleted: 2,
		models.OrderStatusCancelled: 1,
	}, byStatus)

	recent, err := s.repos.Orders.FindRecent(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(recent, 3)

	completed, err := s.repos.Orders.FindCompletedSince(s.ctx, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Len(completed, 2)

	page, err := s.repos.Orders.List(s.ctx, repositories.OrderFilter{Status: models.OrderStatusPending})
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)
}

func (s *RepositoriesTestSuite) TestOrder_SumCompletedRevenueWithoutOrders() {
	revenue, err := s.repos.Orders.SumCompletedRevenue(s.ctx)
	s.Require().NoError(err)
	s.True(revenue.IsZero())
}

func (s *RepositoriesTestSuite) TestOrder_ItemsAndDelete() {
	p := s.createProduct("SKU-ITEM", 5, "2.50")
	o := s.createOrder(models.OrderStatusPending, "0")

	item := &models.OrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: 2, UnitPrice: p.Price, Subtotal: p.Price.Mul(decimal.NewFromInt(2))}
	s.Require().NoError(s.repos.Orders.CreateItem(s.ctx, item))
	s.Require().NoError(s.repos.Orders.UpdateTotal(s.ctx, o.ID, item.Subtotal))

	exists, err := s.repos.Orders.ExistsByOrderNumber(s.ctx, o.OrderNumber)
	s.Require().NoError(err)
	s.True(exists)

	got, err := s.repos.Orders.GetByID(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal("5.00", got.TotalAmount.StringFixed(2))
	s.Require().NotNil(got.Items[0].Product)
	s.Equal("SKU-ITEM", got.Items[0].Product.SKU)
	s.Require().NotNil(got.ShippingAddress)

	locked, err := s.repos.Orders.GetByIDForUpdate(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Len(locked.Items, 1)

	s.Require().NoError(s.repos.Orders.Delete(s.ctx, o.ID))
	_, err = s.repos.Orders.GetByID(s.ctx, o.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	var items int64
	s.Require().NoError(s.db.Model(&models.OrderItem{}).Count(&items).Error)
	s.Zero(items)
}

func (s *RepositoriesTestSuite) TestOrder_AddressInUseCannotBeDeleted() {
	s.createOrder(models.OrderStatusPending, "0")
	err := s.repos.Addresses.Delete(s.ctx, s.address.ID)
	s.ErrorIs(err, apperrors.ErrConstraintViolation)
}

func (s *RepositoriesTestSuite) TestTransactor_RollsBackOnError() {
	p := s.createProduct("SKU-TX", 5, "1.00")
	tx := repositories.NewGORMTransactor(s.db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(s.ctx, func(r *repositories.Repositories) error {
		if err := r.Products.DecrementStock(s.ctx, p.ID, 5); err != nil {
			return err
		}
		return fmt.Errorf("after decrement: %w", boom)
	})
	s.ErrorIs(err, boom)

	got, err := s.repos.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(5, got.StockQuantity)

	err = tx.WithinTransaction(s.ctx, func(r *repositories.Repositories) error {
		return r.Products.DecrementStock(s.ctx, p.ID, 5)
	})
	require.NoError(s.T(), err)
	got, err = s.repos.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(0, got.StockQuantity)
}
