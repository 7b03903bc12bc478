package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	domainRepo "github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
	"gorm.io/gorm"
)

type reportingRepository struct {
	db *gorm.DB
}

// NewReportingRepository creates a new reporting repository
func NewReportingRepository(db *gorm.DB) domainRepo.ReportingRepository {
	return &reportingRepository{db: db}
}

// statuses returns the sale statuses a report should count.
func statuses(includeRefunded bool) []enum.SaleStatus {
	if includeRefunded {
		return []enum.SaleStatus{
			enum.SaleStatusCompleted,
			enum.SaleStatusRefunded,
			enum.SaleStatusPartialRefund,
		}
	}
	return []enum.SaleStatus{enum.SaleStatusCompleted}
}

func (r *reportingRepository) GetRangeTotals(ctx context.Context, from, to time.Time, includeRefunded bool) (*domainRepo.RangeTotals, error) {
	sellerID, ok := GetSellerID(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	var row struct {
		Revenue    int64
		TaxTotal   int64
		SalesCount int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0)  AS revenue,
			COALESCE(SUM(tax), 0)    AS tax_total,
			COUNT(*)                 AS sales_count
		FROM sales
		WHERE seller_id = ?
		  AND status IN ?
		  AND created_at >= ? AND created_at < ?
		  AND deleted_at IS NULL`,
		sellerID, statuses(includeRefunded), from, to,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.RangeTotals{
		Revenue:    float64(row.Revenue) / 100,
		NetRevenue: float64(row.Revenue-row.TaxTotal) / 100,
		TaxTotal:   float64(row.TaxTotal) / 100,
		SalesCount: row.SalesCount,
	}, nil
}

func (r *reportingRepository) GetDailySales(ctx context.Context, from, to time.Time, includeRefunded bool) ([]domainRepo.DailySalesResult, error) {
	sellerID, ok := GetSellerID(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	var rows []struct {
		Day     time.Time
		Revenue int64
		Count   int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('day', created_at) AS day,
			COALESCE(SUM(total), 0)       AS revenue,
			COUNT(*)                      AS count
		FROM sales
		WHERE seller_id = ?
		  AND status IN ?
		  AND created_at >= ? AND created_at < ?
		  AND deleted_at IS NULL
		GROUP BY day
		ORDER BY day ASC`,
		sellerID, statuses(includeRefunded), from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.DailySalesResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.DailySalesResult{
			Date:    row.Day,
			Revenue: float64(row.Revenue) / 100,
			Count:   row.Count,
		})
	}
	return results, nil
}

func (r *reportingRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int, includeRefunded bool) ([]domainRepo.TopProductResult, error) {
	sellerID, ok := GetSellerID(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	if limit <= 0 {
		limit = 5
	}

	var rows []struct {
		ProductID    string
		ProductName  string
		ProductSKU   string
		QuantitySold int
		Revenue      int64
	}

	// Joins through sale_items so snapshots survive catalog edits
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.product_id              AS product_id,
			si.product_name            AS product_name,
			si.product_sku             AS product_sku,
			COALESCE(SUM(si.quantity), 0) AS quantity_sold,
			COALESCE(SUM(si.total), 0)    AS revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.seller_id = ?
		  AND s.status IN ?
		  AND s.created_at >= ? AND s.created_at < ?
		  AND s.deleted_at IS NULL
		  AND si.deleted_at IS NULL
		GROUP BY si.product_id, si.product_name, si.product_sku
		ORDER BY revenue DESC
		LIMIT ?`,
		sellerID, statuses(includeRefunded), from, to, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.TopProductResult, 0, len(rows))
	for _, row := range rows {
		result := domainRepo.TopProductResult{
			ProductName:  row.ProductName,
			ProductSKU:   row.ProductSKU,
			QuantitySold: row.QuantitySold,
			Revenue:      float64(row.Revenue) / 100,
		}
		if id, err := uuid.Parse(row.ProductID); err == nil {
			result.ProductID = id
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *reportingRepository) GetPaymentMethodBreakdown(ctx context.Context, from, to time.Time, includeRefunded bool) ([]domainRepo.PaymentMethodResult, error) {
	sellerID, ok := GetSellerID(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	var rows []struct {
		PaymentMethod string
		Revenue       int64
		Count         int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			payment_method          AS payment_method,
			COALESCE(SUM(total), 0) AS revenue,
			COUNT(*)                AS count
		FROM sales
		WHERE seller_id = ?
		  AND status IN ?
		  AND created_at >= ? AND created_at < ?
		  AND deleted_at IS NULL
		GROUP BY payment_method
		ORDER BY revenue DESC`,
		sellerID, statuses(includeRefunded), from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.PaymentMethodResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.PaymentMethodResult{
			PaymentMethod: row.PaymentMethod,
			Revenue:       float64(row.Revenue) / 100,
			Count:         row.Count,
		})
	}
	return results, nil
}
