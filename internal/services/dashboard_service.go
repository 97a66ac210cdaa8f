package services

import (
	"context"
	"time"

	"erp/internal/models"
	"erp/internal/repositories"

	"github.com/shopspring/decimal"
)

const (
	dashboardListSize     = 5
	dashboardRevenueMonth = 6
)

// DashboardStats are the headline counters of the back office.
type DashboardStats struct {
	TotalProducts      int64           `json:"total_products"`
	TotalCategories    int64           `json:"total_categories"`
	TotalOrders        int64           `json:"total_orders"`
	TotalUsers         int64           `json:"total_users"`
	PendingOrders      int64           `json:"pending_orders"`
	LowStockProducts   int64           `json:"low_stock_products"`
	OutOfStockProducts int64           `json:"out_of_stock_products"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
}

// MonthlyRevenue is the completed-order revenue of one calendar month.
type MonthlyRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

// Overview is everything the dashboard page shows.
type Overview struct {
	Stats            DashboardStats             `json:"stats"`
	RecentOrders     []models.Order             `json:"recent_orders"`
	LowStockProducts []models.Product           `json:"low_stock_products"`
	MonthlyRevenue   []MonthlyRevenue           `json:"monthly_revenue"`
	OrdersByStatus   []repositories.StatusCount `json:"orders_by_status"`
}

// DashboardService aggregates counters and charts across the catalog and orders.
type DashboardService struct {
	repos             *repositories.Repositories
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(repos *repositories.Repositories, lowStockThreshold int) *DashboardService {
	return &DashboardService{repos: repos, lowStockThreshold: lowStockThreshold, now: time.Now}
}

// Overview collects the dashboard. Reads are not in one transaction, so counters may be
// slightly out of step with each other under concurrent writes.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repos.Orders.FindRecent(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repos.Products.FindLowStock(ctx, s.lowStockThreshold, dashboardListSize)
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repos.Orders.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []models.Order{}
	}
	if lowStock == nil {
		lowStock = []models.Product{}
	}
	if byStatus == nil {
		byStatus = []repositories.StatusCount{}
	}
	return &Overview{
		Stats:            *stats,
		RecentOrders:     recent,
		LowStockProducts: lowStock,
		MonthlyRevenue:   monthly,
		OrdersByStatus:   byStatus,
	}, nil
}

func (s *DashboardService) stats(ctx context.Context) (*DashboardStats, error) {
	var (
		st  DashboardStats
		err error
	)
	if st.TotalProducts, err = s.repos.Products.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalCategories, err = s.repos.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalOrders, err = s.repos.Orders.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalUsers, err = s.repos.Users.Count(ctx); err != nil {
		return nil, err
	}
	if st.PendingOrders, err = s.repos.Orders.CountByStatus(ctx, models.OrderStatusPending); err != nil {
		return nil, err
	}
	if st.LowStockProducts, err = s.repos.Products.CountLowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	if st.OutOfStockProducts, err = s.repos.Products.CountOutOfStock(ctx); err != nil {
		return nil, err
	}
	if st.TotalRevenue, err = s.repos.Orders.SumCompletedRevenue(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

// monthlyRevenue buckets completed orders by calendar month in Go so the query stays
// dialect independent. Months without revenue are reported as zero.
func (s *DashboardService) monthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error) {
	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	since := firstOfMonth.AddDate(0, -(dashboardRevenueMonth - 1), 0)

	orders, err := s.repos.Orders.FindCompletedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	months := make([]MonthlyRevenue, dashboardRevenueMonth)
	index := make(map[string]int, dashboardRevenueMonth)
	for i := range months {
		key := since.AddDate(0, i, 0).Format("2006-01")
		months[i] = MonthlyRevenue{Month: key, Revenue: decimal.Zero}
		index[key] = i
	}
	for _, o := range orders {
		if i, ok := index[o.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			months[i].Revenue = months[i].Revenue.Add(o.TotalAmount)
		}
	}
	return months, nil
}
