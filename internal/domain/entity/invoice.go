package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice represents a formal invoice. Numbers follow FAC-<year>-<sequence>
// with the sequence scoped per seller and reset each year. Content is
// editable only while the invoice is a draft.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:100;unique;not null" json:"invoice_number"`
	SequenceNo    int64              `gorm:"not null" json:"sequence_no"`
	SellerID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_invoices_seller_created;index:idx_invoices_seller_status" json:"seller_id"`
	SaleID        *uuid.UUID         `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Status        enum.InvoiceStatus `gorm:"default:0;index:idx_invoices_seller_status" json:"status"`

	SubTotal int64   `gorm:"default:0" json:"-"` // Stored in cents
	Tax      int64   `gorm:"default:0" json:"-"` // Stored in cents
	TaxRate  float64 `gorm:"type:decimal(5,4);default:0" json:"tax_rate"`
	Discount int64   `gorm:"default:0" json:"-"` // Stored in cents
	Total    int64   `gorm:"default:0" json:"-"` // Stored in cents
	Currency string  `gorm:"size:3;default:'EUR'" json:"currency"`

	CustomerName    string  `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail   *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerAddress *string `gorm:"type:text" json:"customer_address,omitempty"`

	// Seller company snapshot taken at creation time
	CompanyName    string  `gorm:"size:255;not null" json:"company_name"`
	CompanyAddress *string `gorm:"type:text" json:"company_address,omitempty"`
	CompanyTaxID   *string `gorm:"size:50" json:"company_tax_id,omitempty"`

	PaymentMethod    enum.PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	Paid             bool               `gorm:"default:false" json:"paid"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	PaymentReference *string            `gorm:"size:100" json:"payment_reference,omitempty"`
	DueDate          *time.Time         `json:"due_date,omitempty"`

	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"index:idx_invoices_seller_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Tax      float64 `json:"tax"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(i),
		SubTotal: float64(i.SubTotal) / 100,
		Tax:      float64(i.Tax) / 100,
		Discount: float64(i.Discount) / 100,
		Total:    float64(i.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Overdue reports whether an unpaid, non-cancelled invoice has passed its due date.
func (i *Invoice) Overdue(now time.Time) bool {
	if i.Paid || i.Status.Terminal() {
		return false
	}
	return i.DueDate != nil && now.After(*i.DueDate)
}

// InvoiceItem represents one invoice line.
type InvoiceItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID   *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description string         `gorm:"size:255;not null" json:"description"`
	ProductSKU  string         `gorm:"size:100" json:"product_sku"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ii InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ii),
		UnitPrice: float64(ii.UnitPrice) / 100,
		Total:     float64(ii.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
