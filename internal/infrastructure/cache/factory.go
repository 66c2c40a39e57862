package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceStore is implemented by RedisPriceCache and InMemoryPriceCache
type PriceStore interface {
	Get(ctx context.Context) ([]catalog.Recyclable, bool, error)
	Set(ctx context.Context, items []catalog.Recyclable) error
	Invalidate(ctx context.Context) error
}

// StoreFactory builds Redis-backed stores when a client is available and
// falls back to in-memory stores otherwise
type StoreFactory struct {
	client   *redis.Client
	logger   *zap.Logger
	priceTTL time.Duration
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithPriceTTL sets how long the price table stays cached
func WithPriceTTL(ttl time.Duration) StoreFactoryOption {
	return func(f *StoreFactory) {
		if ttl > 0 {
			f.priceTTL = ttl
		}
	}
}

// NewStoreFactory creates a factory. client may be nil.
func NewStoreFactory(client *redis.Client, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		client:   client,
		logger:   zap.NewNop(),
		priceTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PriceStore returns the price table cache
func (f *StoreFactory) PriceStore() PriceStore {
	if f.client == nil {
		f.logger.Info("redis not configured, caching prices in memory")
		return NewInMemoryPriceCache(f.priceTTL)
	}
	return NewRedisPriceCache(f.client, f.priceTTL)
}

// IdempotencyStore returns the processed-event store used by event handlers.
// The in-memory fallback does not deduplicate across instances.
func (f *StoreFactory) IdempotencyStore() shared.IdempotencyStore {
	if f.client == nil {
		f.logger.Warn("redis not configured, event deduplication is per instance")
		return NewInMemoryIdempotencyStore(0)
	}
	return NewRedisIdempotencyStore(f.client, "")
}
