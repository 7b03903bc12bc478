package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/pkg/pagination"
)

// ReturnFilterParams contains filtering parameters for return queries
type ReturnFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ReturnStatus
	Resolution *enum.ReturnResolution
	StartDate  *time.Time
	EndDate    *time.Time
}

// ReturnRepository defines the interface for product return persistence
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.ProductReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error)
	List(ctx context.Context, params *ReturnFilterParams) ([]entity.ProductReturn, int64, error)

	// UpdateStatusFrom transitions status only when the stored status still
	// equals the expected one; returns false when another caller won the
	// transition. This is the guard against double-crediting stock.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next enum.ReturnStatus) (bool, error)

	CountByStatus(ctx context.Context, status enum.ReturnStatus) (int64, error)
}
