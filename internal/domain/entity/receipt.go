package entity

// ReceiptHeader holds the seller header printed at the top of a receipt.
type ReceiptHeader struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity — it is composed from sale data at read time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	SaleNumber    string        `json:"sale_number"`
	Date          string        `json:"date"`
	Customer      string        `json:"customer,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      float64       `json:"sub_total"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	CashReceived  float64       `json:"cash_received,omitempty"`
	ChangeGiven   float64       `json:"change_given,omitempty"`
	Currency      string        `json:"currency"`
}
