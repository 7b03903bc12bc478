package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailySalesResult represents aggregated sales for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue float64
	Count   int64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductSKU   string
	QuantitySold int
	Revenue      float64
}

// PaymentMethodResult represents revenue per payment method
type PaymentMethodResult struct {
	PaymentMethod string
	Revenue       float64
	Count         int64
}

// RangeTotals holds summed figures for a time window
type RangeTotals struct {
	Revenue    float64
	NetRevenue float64 // revenue minus collected tax
	TaxTotal   float64
	SalesCount int64
}

// ReportingRepository defines read-only aggregation queries over sales.
// All queries are seller-scoped through context and tolerate staleness —
// they never block writers.
type ReportingRepository interface {
	// GetRangeTotals sums completed sales inside [from, to). When
	// includeRefunded is true, refunded/partially refunded sales count too.
	GetRangeTotals(ctx context.Context, from, to time.Time, includeRefunded bool) (*RangeTotals, error)

	// GetDailySales returns one aggregate row per day inside [from, to).
	GetDailySales(ctx context.Context, from, to time.Time, includeRefunded bool) ([]DailySalesResult, error)

	// GetTopProducts returns the best selling products by revenue in [from, to).
	GetTopProducts(ctx context.Context, from, to time.Time, limit int, includeRefunded bool) ([]TopProductResult, error)

	// GetPaymentMethodBreakdown aggregates revenue per payment method in [from, to).
	GetPaymentMethodBreakdown(ctx context.Context, from, to time.Time, includeRefunded bool) ([]PaymentMethodResult, error)
}
