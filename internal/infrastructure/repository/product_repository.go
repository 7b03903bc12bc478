package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	domainRepo "github.com/renovia/pos-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(SellerScope(ctx)).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(SellerScope(ctx)).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Scopes(SellerScope(ctx)).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(SellerScope(ctx)).
		Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(SellerScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.LowStock {
		query = query.Where("track_inventory AND quantity <= quantity_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(SellerScope(ctx)).
		Where("track_inventory AND quantity <= quantity_alert").
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

// DebitStock atomically decrements stock only if sufficient quantity exists,
// flipping status to out-of-stock in the same statement when the result is
// zero. Uses: UPDATE ... SET quantity = quantity - n WHERE quantity >= n —
// never a read followed by a write.
func (r *productRepository) DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(SellerScope(ctx)).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", qty),
			"status": gorm.Expr("CASE WHEN quantity - ? = 0 THEN ? ELSE status END",
				qty, enum.ProductStatusOutOfStock),
		})

	if result.Error != nil {
		return false, result.Error
	}

	// If no rows were affected, insufficient stock
	return result.RowsAffected > 0, nil
}

// DebitStockBatch atomically debits stock for multiple products in a single
// transaction. If any product has insufficient stock, the entire transaction
// is rolled back and the failing product IDs are returned.
func (r *productRepository) DebitStockBatch(ctx context.Context, debits map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(debits) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, qty := range debits {
			result := tx.Model(&entity.Product{}).
				Scopes(SellerScope(ctx)).
				Where("id = ? AND quantity >= ?", id, qty).
				Updates(map[string]interface{}{
					"quantity": gorm.Expr("quantity - ?", qty),
					"status": gorm.Expr("CASE WHEN quantity - ? = 0 THEN ? ELSE status END",
						qty, enum.ProductStatusOutOfStock),
				})

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		// If any products failed, roll back the entire transaction
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	// When the rollback was caused by insufficient stock, surface the
	// failing IDs without a transaction error
	if err == gorm.ErrInvalidTransaction && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return failedIDs, err
}

// CreditStock atomically increments stock, reactivating out-of-stock
// products whose quantity becomes positive.
func (r *productRepository) CreditStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(SellerScope(ctx)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
			"status": gorm.Expr("CASE WHEN status = ? AND quantity + ? > 0 THEN ? ELSE status END",
				enum.ProductStatusOutOfStock, qty, enum.ProductStatusActive),
		}).Error
}

// CreditStockBatch atomically credits stock for multiple products (returns
// and refunds) in a single transaction.
func (r *productRepository) CreditStockBatch(ctx context.Context, credits map[uuid.UUID]int) error {
	if len(credits) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, qty := range credits {
			if err := tx.Model(&entity.Product{}).
				Scopes(SellerScope(ctx)).
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"quantity": gorm.Expr("quantity + ?", qty),
					"status": gorm.Expr("CASE WHEN status = ? AND quantity + ? > 0 THEN ? ELSE status END",
						enum.ProductStatusOutOfStock, qty, enum.ProductStatusActive),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// IncrementSalesCount bumps the cumulative units-sold counters.
func (r *productRepository) IncrementSalesCount(ctx context.Context, counts map[uuid.UUID]int) error {
	if len(counts) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, n := range counts {
			if err := tx.Model(&entity.Product{}).
				Scopes(SellerScope(ctx)).
				Where("id = ?", id).
				Update("sales_count", gorm.Expr("sales_count + ?", n)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
