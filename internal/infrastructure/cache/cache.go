package cache

import (
	"context"
	"time"
)

// DashboardCache caches serialized dashboard payloads. Implementations must
// treat misses and backend failures alike — callers always recompute on
// (nil, false).
type DashboardCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// NoopCache is used when no Redis address is configured; every read misses.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (NoopCache) Invalidate(ctx context.Context, key string) error {
	return nil
}

func (NoopCache) Close() error {
	return nil
}
