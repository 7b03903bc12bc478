package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/pkg/pagination"
)

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.SaleStatus
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// Create persists the sale together with its line items.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetBySaleNumber(ctx context.Context, saleNumber string) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)

	// UpdateStatusFrom transitions the status only when it currently equals
	// expected, reporting whether this caller won the transition.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next enum.SaleStatus) (bool, error)

	// ListCompletedInRange returns completed sales with items inside
	// [from, to), ordered by creation time. Used by the accounting export.
	ListCompletedInRange(ctx context.Context, from, to time.Time) ([]entity.Sale, error)
}
