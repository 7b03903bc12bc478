package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller represents the business every ledger record belongs to. Its company
// fields are the snapshot source for invoice headers.
type Seller struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName string         `gorm:"size:255;not null" json:"company_name"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	TaxID       *string        `gorm:"size:50" json:"tax_id,omitempty"`
	Currency    string         `gorm:"size:3;default:'EUR'" json:"currency"`
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new seller
func (s *Seller) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Seller model
func (Seller) TableName() string {
	return "sellers"
}
