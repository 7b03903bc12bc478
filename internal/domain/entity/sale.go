package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale represents a completed point-of-sale transaction.
// It is created once and never edited apart from the refund status transition.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleNumber string          `gorm:"size:100;unique;not null" json:"sale_number"`
	SellerID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_seller_created;index:idx_sales_seller_status" json:"seller_id"`
	Status     enum.SaleStatus `gorm:"default:0;index:idx_sales_seller_status" json:"status"`

	SubTotal int64   `gorm:"default:0" json:"-"` // Stored in cents
	Tax      int64   `gorm:"default:0" json:"-"` // Stored in cents
	TaxRate  float64 `gorm:"type:decimal(5,4);default:0" json:"tax_rate"`
	Discount int64   `gorm:"default:0" json:"-"` // Stored in cents
	Total    int64   `gorm:"default:0" json:"-"` // Stored in cents
	Currency string  `gorm:"size:3;default:'EUR'" json:"currency"`

	PaymentMethod enum.PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	CashReceived  *int64             `json:"-"` // cents, cash payments only
	ChangeGiven   *int64             `json:"-"` // cents, cash payments only
	CardReference *string            `gorm:"size:100" json:"card_reference,omitempty"`

	CustomerName  *string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone *string `gorm:"size:50" json:"customer_phone,omitempty"`

	CreatedAt time.Time      `gorm:"index:idx_sales_seller_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	out := &struct {
		Alias
		SubTotal     float64  `json:"sub_total"`
		Tax          float64  `json:"tax"`
		Discount     float64  `json:"discount"`
		Total        float64  `json:"total"`
		CashReceived *float64 `json:"cash_received,omitempty"`
		ChangeGiven  *float64 `json:"change_given,omitempty"`
	}{
		Alias:    Alias(s),
		SubTotal: float64(s.SubTotal) / 100,
		Tax:      float64(s.Tax) / 100,
		Discount: float64(s.Discount) / 100,
		Total:    float64(s.Total) / 100,
	}
	if s.CashReceived != nil {
		v := float64(*s.CashReceived) / 100
		out.CashReceived = &v
	}
	if s.ChangeGiven != nil {
		v := float64(*s.ChangeGiven) / 100
		out.ChangeGiven = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents one line of a sale. Name, SKU and unit price are
// snapshots taken at sale time; later catalog edits do not touch them.
type SaleItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	ProductSKU  string         `gorm:"size:100" json:"product_sku"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
