package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ProductReturn represents a customer return. Stock is untouched until the
// return is approved; approval credits stock at most once.
type ProductReturn struct {
	ID           uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	ReturnNumber string                `gorm:"size:100;unique;not null" json:"return_number"`
	SellerID     uuid.UUID             `gorm:"type:uuid;not null;index:idx_returns_seller_created;index:idx_returns_seller_status" json:"seller_id"`
	SaleID       *uuid.UUID            `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Resolution   enum.ReturnResolution `gorm:"default:0" json:"resolution"`
	Status       enum.ReturnStatus     `gorm:"default:0;index:idx_returns_seller_status" json:"status"`

	SubTotal     int64   `gorm:"default:0" json:"-"` // Stored in cents
	Tax          int64   `gorm:"default:0" json:"-"` // Stored in cents
	TaxRate      float64 `gorm:"type:decimal(5,4);default:0" json:"tax_rate"`
	Total        int64   `gorm:"default:0" json:"-"` // Stored in cents
	CreditAmount int64   `gorm:"default:0" json:"-"` // cents, set when resolution is credit

	CustomerName  *string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail *string `gorm:"size:255" json:"customer_email,omitempty"`

	ApprovedAt *time.Time     `json:"approved_at,omitempty"`
	CreatedAt  time.Time      `gorm:"index:idx_returns_seller_created" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale  *Sale        `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	Items []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r ProductReturn) MarshalJSON() ([]byte, error) {
	type Alias ProductReturn
	return json.Marshal(&struct {
		Alias
		SubTotal     float64 `json:"sub_total"`
		Tax          float64 `json:"tax"`
		Total        float64 `json:"total"`
		CreditAmount float64 `json:"credit_amount"`
	}{
		Alias:        Alias(r),
		SubTotal:     float64(r.SubTotal) / 100,
		Tax:          float64(r.Tax) / 100,
		Total:        float64(r.Total) / 100,
		CreditAmount: float64(r.CreditAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new return
func (r *ProductReturn) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductReturn model
func (ProductReturn) TableName() string {
	return "product_returns"
}

// ReturnItem represents one returned line with its reason.
type ReturnItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ReturnID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"return_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	ProductSKU  string         `gorm:"size:100" json:"product_sku"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents
	Reason      string         `gorm:"size:255" json:"reason"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri ReturnItem) MarshalJSON() ([]byte, error) {
	type Alias ReturnItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ri),
		UnitPrice: float64(ri.UnitPrice) / 100,
		Total:     float64(ri.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new return item
func (ri *ReturnItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnItem model
func (ReturnItem) TableName() string {
	return "return_items"
}
