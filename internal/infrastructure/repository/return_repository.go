package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	domainRepo "github.com/renovia/pos-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *entity.ProductReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	var ret entity.ProductReturn
	err := r.db.WithContext(ctx).Scopes(SellerScope(ctx)).First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *returnRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	var ret entity.ProductReturn
	err := r.db.WithContext(ctx).Scopes(SellerScope(ctx)).
		Preload("Items").
		First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *returnRepository) List(ctx context.Context, params *domainRepo.ReturnFilterParams) ([]entity.ProductReturn, int64, error) {
	var returns []entity.ProductReturn
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductReturn{}).Scopes(SellerScope(ctx))

	if params.Search != "" {
		query = query.Where("return_number ILIKE ? OR customer_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Resolution != nil {
		query = query.Where("resolution = ?", *params.Resolution)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Preload("Items").
		Find(&returns).Error

	return returns, total, err
}

// UpdateStatusFrom is a compare-and-swap on the status column. The WHERE
// clause carries the expected status, so when two approvals race only the
// first one sees RowsAffected > 0 — the loser gets false and must not touch
// stock.
func (r *returnRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next enum.ReturnStatus) (bool, error) {
	updates := map[string]interface{}{"status": next}
	if next == enum.ReturnStatusApproved {
		updates["approved_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).Model(&entity.ProductReturn{}).
		Scopes(SellerScope(ctx)).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *returnRepository) CountByStatus(ctx context.Context, status enum.ReturnStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProductReturn{}).
		Scopes(SellerScope(ctx)).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
