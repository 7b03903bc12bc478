// Package export serializes completed sales for external bookkeeping.
// Two formats are supported: a human-readable CSV and a fixed-column,
// FEC-style double-entry ledger file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// SaleRow is the flattened, read-only view of a completed sale that the
// exporters serialize. All amounts are in cents.
type SaleRow struct {
	Date          time.Time
	Number        string
	Customer      string
	PaymentMethod string
	SubTotal      int64
	Tax           int64
	Discount      int64
	Total         int64
}

// Cents renders a cent amount as a decimal string, e.g. 12345 -> "123.45".
func Cents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// WriteCSV writes the human-readable export: one row per sale with the
// columns date, number, customer, payment method, subtotal, tax, discount,
// total.
func WriteCSV(w io.Writer, rows []SaleRow) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "number", "customer", "payment_method", "subtotal", "tax", "discount", "total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.Number,
			row.Customer,
			row.PaymentMethod,
			Cents(row.SubTotal),
			Cents(row.Tax),
			Cents(row.Discount),
			Cents(row.Total),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
