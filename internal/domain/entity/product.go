package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Product represents a catalog item whose stock the ledger tracks
type Product struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SellerID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_products_seller_created;index:idx_products_seller_sku,unique" json:"seller_id"`
	Name           string             `gorm:"size:255;not null" json:"name"`
	SKU            string             `gorm:"size:100;not null;index:idx_products_seller_sku,unique" json:"sku"`
	Description    *string            `gorm:"type:text" json:"description,omitempty"`
	Price          int64              `gorm:"default:0" json:"-"` // Stored in cents
	Quantity       int                `gorm:"default:0" json:"quantity"`
	QuantityAlert  int                `gorm:"default:0" json:"quantity_alert"`
	TrackInventory bool               `gorm:"default:true" json:"track_inventory"`
	Status         enum.ProductStatus `gorm:"default:0" json:"status"`
	SalesCount     int64              `gorm:"default:0" json:"sales_count"`
	CreatedAt      time.Time          `gorm:"index:idx_products_seller_created" json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price*100 + 0.5)
}

// LowStock reports whether the tracked quantity is at or below the alert threshold.
func (p *Product) LowStock() bool {
	return p.TrackInventory && p.Quantity <= p.QuantityAlert
}

// MarshalJSON converts Product to JSON with the price in decimal form
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: p.GetPriceDecimal(),
	})
}
