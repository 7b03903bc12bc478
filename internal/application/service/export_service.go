package service

import (
	"context"
	"io"
	"time"

	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
	"github.com/renovia/pos-ledger-api/pkg/export"
)

// Export formats accepted by Export.
const (
	FormatCSV = "csv"
	FormatFEC = "fec"
)

// ExportService streams completed sales to accounting files. Only completed
// sales are exported; refunded sales are excluded so the books match the
// money actually kept.
type ExportService struct {
	saleRepo repository.SaleRepository
}

// NewExportService creates a new export service
func NewExportService(saleRepo repository.SaleRepository) *ExportService {
	return &ExportService{saleRepo: saleRepo}
}

// Export writes the sales inside [from, to) to w in the requested format
func (s *ExportService) Export(ctx context.Context, w io.Writer, format string, from, to time.Time) error {
	if !to.After(from) {
		return apperror.NewBadRequestError("Export range must end after it starts")
	}

	sales, err := s.saleRepo.ListCompletedInRange(ctx, from, to)
	if err != nil {
		return err
	}

	rows := make([]export.SaleRow, 0, len(sales))
	for _, sale := range sales {
		row := export.SaleRow{
			Date:          sale.CreatedAt,
			Number:        sale.SaleNumber,
			PaymentMethod: string(sale.PaymentMethod),
			SubTotal:      sale.SubTotal,
			Tax:           sale.Tax,
			Discount:      sale.Discount,
			Total:         sale.Total,
		}
		if sale.CustomerName != nil {
			row.Customer = *sale.CustomerName
		}
		rows = append(rows, row)
	}

	switch format {
	case FormatCSV:
		return export.WriteCSV(w, rows)
	case FormatFEC:
		return export.WriteFEC(w, rows)
	default:
		return apperror.NewBadRequestError("Format must be csv or fec")
	}
}
