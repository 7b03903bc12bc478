package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"
)

func testRows() []SaleRow {
	day := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return []SaleRow{
		{
			Date:          day,
			Number:        "SALE-1",
			Customer:      "Alice Dupont",
			PaymentMethod: "card",
			SubTotal:      9900,
			Tax:           1980,
			Discount:      500,
			Total:         11380,
		},
		{
			Date:          day.Add(2 * time.Hour),
			Number:        "SALE-2",
			Customer:      "",
			PaymentMethod: "cash",
			SubTotal:      350,
			Tax:           70,
			Discount:      0,
			Total:         420,
		},
	}
}

func TestCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{350, "3.50"},
		{11380, "113.80"},
		{-420, "-4.20"},
	}
	for _, c := range cases {
		if got := Cents(c.in); got != c.want {
			t.Errorf("Cents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	wantHeader := "date,number,customer,payment_method,subtotal,tax,discount,total"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	first := records[1]
	if first[0] != "2026-03-14" {
		t.Errorf("date = %q, want 2026-03-14", first[0])
	}
	if first[1] != "SALE-1" || first[2] != "Alice Dupont" || first[3] != "card" {
		t.Errorf("row identity columns wrong: %v", first)
	}
	if first[4] != "99.00" || first[5] != "19.80" || first[6] != "5.00" || first[7] != "113.80" {
		t.Errorf("amount columns wrong: %v", first)
	}
}

func TestWriteFECBalances(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFEC(&buf, testRows()); err != nil {
		t.Fatalf("WriteFEC: %v", err)
	}

	r := csv.NewReader(&buf)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(records[0]) != 18 {
		t.Fatalf("header has %d columns, want 18", len(records[0]))
	}
	if records[0][0] != "JournalCode" || records[0][11] != "Debit" || records[0][12] != "Credit" {
		t.Errorf("unexpected header: %v", records[0])
	}

	// Per sale, the debit must equal the sum of the credits. Accumulate in
	// integer cents so exact equality is meaningful.
	cents := func(s string) int64 {
		f, _ := strconv.ParseFloat(s, 64)
		return int64(math.Round(f * 100))
	}
	balance := make(map[string]int64)
	for _, rec := range records[1:] {
		num := rec[2]
		balance[num] += cents(rec[11]) - cents(rec[12])

		if rec[0] != "VEN" || rec[1] != "Ventes" {
			t.Errorf("journal columns wrong: %v", rec)
		}
		if rec[3] != "20260314" {
			t.Errorf("EcritureDate = %q, want 20260314", rec[3])
		}
	}
	for num, b := range balance {
		if b != 0 {
			t.Errorf("entry %s does not balance, off by %.2f", num, float64(b)/100)
		}
	}
}

func TestWriteFECAccounts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFEC(&buf, testRows()); err != nil {
		t.Fatalf("WriteFEC: %v", err)
	}

	r := csv.NewReader(&buf)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	accounts := make(map[string][]string)
	for _, rec := range records[1:] {
		accounts[rec[2]] = append(accounts[rec[2]], rec[4])
	}

	// Card sale debits the bank account
	if got := accounts["SALE-1"]; len(got) != 3 || got[0] != AccountBank || got[1] != AccountRevenue || got[2] != AccountVAT {
		t.Errorf("SALE-1 accounts = %v, want [%s %s %s]", got, AccountBank, AccountRevenue, AccountVAT)
	}
	// Cash sale debits the till
	if got := accounts["SALE-2"]; len(got) == 0 || got[0] != AccountCashTill {
		t.Errorf("SALE-2 debit account = %v, want %s first", got, AccountCashTill)
	}

	// Net revenue credit is subtotal less discount
	for _, rec := range records[1:] {
		if rec[2] == "SALE-1" && rec[4] == AccountRevenue {
			if rec[12] != "94.00" {
				t.Errorf("SALE-1 revenue credit = %q, want 94.00", rec[12])
			}
		}
	}
}

func TestWriteFECZeroTaxOmitsVATLine(t *testing.T) {
	rows := []SaleRow{{
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Number:        "SALE-3",
		PaymentMethod: "cash",
		SubTotal:      1000,
		Tax:           0,
		Total:         1000,
	}}

	var buf bytes.Buffer
	if err := WriteFEC(&buf, rows); err != nil {
		t.Fatalf("WriteFEC: %v", err)
	}

	r := csv.NewReader(&buf)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + debit + revenue", len(records))
	}
	for _, rec := range records[1:] {
		if rec[4] == AccountVAT {
			t.Error("zero-tax sale must not emit a VAT line")
		}
	}
}
