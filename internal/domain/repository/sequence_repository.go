package repository

import (
	"context"

	"github.com/google/uuid"
)

// SequenceRepository hands out strictly increasing values per
// (seller, scope, period). Next must be a single atomic operation against
// the store so two concurrent callers can never receive the same value.
type SequenceRepository interface {
	Next(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error)
	// Current returns the last value handed out, 0 when none. Read-only.
	Current(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error)
}
