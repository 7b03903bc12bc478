package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/cache"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
)

// DashboardStats aggregates the storefront's health at a glance
type DashboardStats struct {
	TodayRevenue     float64                          `json:"today_revenue"`
	TodaySalesCount  int64                            `json:"today_sales_count"`
	MonthRevenue     float64                          `json:"month_revenue"`
	MonthSalesCount  int64                            `json:"month_sales_count"`
	PendingReturns   int64                            `json:"pending_returns"`
	LowStockCount    int                              `json:"low_stock_count"`
	TopProducts      []repository.TopProductResult    `json:"top_products"`
	PaymentBreakdown []repository.PaymentMethodResult `json:"payment_breakdown"`
}

// DashboardService assembles dashboard statistics, with a short-lived cache
// in front. Figures may trail reality by the cache TTL.
type DashboardService struct {
	reportingRepo repository.ReportingRepository
	returnRepo    repository.ReturnRepository
	productRepo   repository.ProductRepository
	cache         cache.DashboardCache
	cacheTTL      time.Duration
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	reportingRepo repository.ReportingRepository,
	returnRepo repository.ReturnRepository,
	productRepo repository.ProductRepository,
	dashCache cache.DashboardCache,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		reportingRepo: reportingRepo,
		returnRepo:    returnRepo,
		productRepo:   productRepo,
		cache:         dashCache,
		cacheTTL:      cacheTTL,
	}
}

// dashboardKey is the per-seller cache key. Sale and return writes
// invalidate it so the dashboard never serves a stale TTL window after a
// mutation.
func dashboardKey(sellerID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", sellerID)
}

// GetStats returns the dashboard figures, served from cache when fresh
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	sellerID, ok := infraRepo.GetSellerID(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	cacheKey := dashboardKey(sellerID)
	if payload, hit, err := s.cache.Get(ctx, cacheKey); err == nil && hit {
		var stats DashboardStats
		if err := json.Unmarshal(payload, &stats); err == nil {
			return &stats, nil
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	tomorrow := dayStart.AddDate(0, 0, 1)

	today, err := s.reportingRepo.GetRangeTotals(ctx, dayStart, tomorrow, false)
	if err != nil {
		return nil, err
	}
	month, err := s.reportingRepo.GetRangeTotals(ctx, monthStart, tomorrow, false)
	if err != nil {
		return nil, err
	}
	pendingReturns, err := s.returnRepo.CountByStatus(ctx, enum.ReturnStatusPending)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.reportingRepo.GetTopProducts(ctx, monthStart, tomorrow, 5, false)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.reportingRepo.GetPaymentMethodBreakdown(ctx, monthStart, tomorrow, false)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TodayRevenue:     today.Revenue,
		TodaySalesCount:  today.SalesCount,
		MonthRevenue:     month.Revenue,
		MonthSalesCount:  month.SalesCount,
		PendingReturns:   pendingReturns,
		LowStockCount:    len(lowStock),
		TopProducts:      topProducts,
		PaymentBreakdown: breakdown,
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.cacheTTL)
	}

	return stats, nil
}
