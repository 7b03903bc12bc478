package service

import (
	"context"
	"time"

	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
)

// Report periods accepted by GetReport.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Report is a financial summary over a period
type Report struct {
	Period           string                           `json:"period"`
	From             time.Time                        `json:"from"`
	To               time.Time                        `json:"to"`
	Revenue          float64                          `json:"revenue"`
	NetRevenue       float64                          `json:"net_revenue"`
	TaxCollected     float64                          `json:"tax_collected"`
	SalesCount       int64                            `json:"sales_count"`
	AverageSale      float64                          `json:"average_sale"`
	DailyBreakdown   []repository.DailySalesResult    `json:"daily_breakdown"`
	TopProducts      []repository.TopProductResult    `json:"top_products"`
	PaymentBreakdown []repository.PaymentMethodResult `json:"payment_breakdown"`
}

// ReportService produces financial reports over fixed periods
type ReportService struct {
	reportingRepo repository.ReportingRepository
}

// NewReportService creates a new report service
func NewReportService(reportingRepo repository.ReportingRepository) *ReportService {
	return &ReportService{reportingRepo: reportingRepo}
}

// periodRange resolves a period name to a half-open [from, to) window
// anchored at now. Week means the trailing seven days.
func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := dayStart.AddDate(0, 0, 1)

	switch period {
	case PeriodDay:
		return dayStart, to, nil
	case PeriodWeek:
		return dayStart.AddDate(0, 0, -6), to, nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), to, nil
	default:
		return time.Time{}, time.Time{}, apperror.NewBadRequestError("Period must be day, week or month")
	}
}

// GetReport builds the report for a named period ending today
func (s *ReportService) GetReport(ctx context.Context, period string, includeRefunded bool) (*Report, error) {
	from, to, err := periodRange(period, time.Now())
	if err != nil {
		return nil, err
	}
	return s.buildReport(ctx, period, from, to, includeRefunded)
}

// GetReportRange builds the report for an explicit [from, to) window
func (s *ReportService) GetReportRange(ctx context.Context, from, to time.Time, includeRefunded bool) (*Report, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError("Report range must end after it starts")
	}
	return s.buildReport(ctx, "custom", from, to, includeRefunded)
}

func (s *ReportService) buildReport(ctx context.Context, period string, from, to time.Time, includeRefunded bool) (*Report, error) {
	totals, err := s.reportingRepo.GetRangeTotals(ctx, from, to, includeRefunded)
	if err != nil {
		return nil, err
	}
	daily, err := s.reportingRepo.GetDailySales(ctx, from, to, includeRefunded)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.reportingRepo.GetTopProducts(ctx, from, to, 10, includeRefunded)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.reportingRepo.GetPaymentMethodBreakdown(ctx, from, to, includeRefunded)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Period:           period,
		From:             from,
		To:               to,
		Revenue:          totals.Revenue,
		NetRevenue:       totals.NetRevenue,
		TaxCollected:     totals.TaxTotal,
		SalesCount:       totals.SalesCount,
		DailyBreakdown:   daily,
		TopProducts:      topProducts,
		PaymentBreakdown: breakdown,
	}
	if totals.SalesCount > 0 {
		report.AverageSale = totals.Revenue / float64(totals.SalesCount)
	}
	return report, nil
}
