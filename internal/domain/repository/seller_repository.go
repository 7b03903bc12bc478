package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
)

// SellerRepository defines the interface for seller data operations
type SellerRepository interface {
	Create(ctx context.Context, seller *entity.Seller) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error)
	Update(ctx context.Context, seller *entity.Seller) error
}
