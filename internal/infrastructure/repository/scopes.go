package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// SellerIDKey is the context key for the authenticated seller
const SellerIDKey ctxKey = "seller_id"

// SellerScope returns a GORM scope that filters by the seller in context.
// Every seller-owned query must apply it; when the seller is missing the
// scope fails closed and matches nothing, so records from other sellers can
// never leak through a forgotten check.
func SellerScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sellerID, ok := ctx.Value(SellerIDKey).(uuid.UUID)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("seller_id = ?", sellerID)
	}
}

// WithSeller adds the seller ID to context
func WithSeller(ctx context.Context, sellerID uuid.UUID) context.Context {
	return context.WithValue(ctx, SellerIDKey, sellerID)
}

// GetSellerID extracts the seller ID from context
func GetSellerID(ctx context.Context) (uuid.UUID, bool) {
	sellerID, ok := ctx.Value(SellerIDKey).(uuid.UUID)
	return sellerID, ok
}
