package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSequence is the atomic counter behind sequential document numbers.
// One row per (seller, scope, period); the value is only ever advanced via an
// atomic upsert, never read-then-written.
type DocumentSequence struct {
	SellerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"seller_id"`
	Scope     string    `gorm:"size:50;primaryKey" json:"scope"`
	Period    string    `gorm:"size:20;primaryKey" json:"period"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sequence scopes known to the ledger.
const (
	SequenceScopeInvoice = "invoice"
)

// TableName returns the table name for the DocumentSequence model
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
