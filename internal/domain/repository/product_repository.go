package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/pkg/pagination"
)

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// ProductRepository is the inventory store. Stock is only ever mutated
// through the Debit/Credit operations, which are atomic conditional updates
// at the storage layer — there is no read-modify-write path.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)

	// DebitStock decrements stock only if the current quantity covers qty,
	// flipping status to out-of-stock when the result hits zero. Returns
	// false without error when stock is insufficient.
	DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)

	// DebitStockBatch debits every product in one transaction; if any line
	// lacks stock the whole transaction rolls back and the failing product
	// IDs are returned.
	DebitStockBatch(ctx context.Context, debits map[uuid.UUID]int) ([]uuid.UUID, error)

	// CreditStock increments stock unconditionally, reactivating
	// out-of-stock products whose quantity becomes positive.
	CreditStock(ctx context.Context, id uuid.UUID, qty int) error

	// CreditStockBatch credits every product in one transaction.
	CreditStockBatch(ctx context.Context, credits map[uuid.UUID]int) error

	// IncrementSalesCount bumps the cumulative units-sold counters.
	IncrementSalesCount(ctx context.Context, counts map[uuid.UUID]int) error
}
