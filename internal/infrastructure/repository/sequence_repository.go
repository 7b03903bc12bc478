package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	domainRepo "github.com/renovia/pos-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new document sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next advances the counter with a single upsert. Postgres serializes the
// two branches on the primary key, so concurrent callers always get
// distinct values — never SELECT MAX + 1.
func (r *sequenceRepository) Next(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (seller_id, scope, period, value, updated_at)
		VALUES (?, ?, ?, 1, NOW())
		ON CONFLICT (seller_id, scope, period)
		DO UPDATE SET value = document_sequences.value + 1, updated_at = NOW()
		RETURNING value`,
		sellerID, scope, period,
	).Scan(&value).Error
	return value, err
}

func (r *sequenceRepository) Current(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT value FROM document_sequences
		WHERE seller_id = ? AND scope = ? AND period = ?`,
		sellerID, scope, period,
	).Scan(&value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return value, err
}
