package docnum

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	n := New(PrefixSale)
	if !strings.HasPrefix(n, "SALE-") {
		t.Errorf("number %q missing prefix", n)
	}
	if parts := strings.Split(n, "-"); len(parts) != 3 {
		t.Errorf("number %q should have prefix, timestamp and suffix", n)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := New(PrefixReturn)
		if seen[n] {
			t.Fatalf("duplicate number %q", n)
		}
		seen[n] = true
	}
}

func TestFormatInvoice(t *testing.T) {
	cases := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 1, "FAC-2026-000001"},
		{2026, 42, "FAC-2026-000042"},
		{2027, 999999, "FAC-2027-999999"},
		{2026, 1000000, "FAC-2026-1000000"},
	}
	for _, c := range cases {
		if got := FormatInvoice(c.year, c.seq); got != c.want {
			t.Errorf("FormatInvoice(%d, %d) = %q, want %q", c.year, c.seq, got, c.want)
		}
	}
}

func TestInvoicePeriod(t *testing.T) {
	// The sequence resets per calendar year, regardless of month
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	if InvoicePeriod(jan) != "2026" || InvoicePeriod(dec) != "2026" {
		t.Errorf("period = %q / %q, want 2026", InvoicePeriod(jan), InvoicePeriod(dec))
	}
	if InvoicePeriod(jan.AddDate(1, 0, 0)) != "2027" {
		t.Error("next year must open a new period")
	}
}
