// Package docnum generates the document numbers used by the ledger.
//
// Sale and return numbers only need practical uniqueness, so they combine a
// nanosecond timestamp with a random suffix. Invoice numbers are strictly
// sequential per seller and year; the sequence itself comes from the
// document sequence store, this package only formats it.
package docnum

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Prefixes for the composite document numbers.
const (
	PrefixSale   = "SALE"
	PrefixReturn = "RET"
)

// New returns a composite number like SALE-1724999999999999999-a1b2c3d4.
func New(prefix string) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}

// FormatInvoice renders an invoice number like FAC-2026-000042.
func FormatInvoice(year int, sequence int64) string {
	return fmt.Sprintf("FAC-%d-%06d", year, sequence)
}

// InvoicePeriod returns the sequence period key for an invoice date, the
// calendar year the sequence resets on.
func InvoicePeriod(t time.Time) string {
	return fmt.Sprintf("%d", t.Year())
}
