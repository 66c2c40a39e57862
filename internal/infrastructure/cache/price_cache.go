package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/setorcuan/backend/internal/domain/catalog"
)

const priceTableKey = KeyPrefix + "catalog:prices"

// RedisPriceCache caches the whole recyclable price table under one key
type RedisPriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPriceCache creates a price cache backed by the given client
func NewRedisPriceCache(client *redis.Client, ttl time.Duration) *RedisPriceCache {
	return &RedisPriceCache{client: client, ttl: ttl}
}

// Get returns the cached table. ok is false on a miss.
func (c *RedisPriceCache) Get(ctx context.Context) ([]catalog.Recyclable, bool, error) {
	raw, err := c.client.Get(ctx, priceTableKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read price cache: %w", err)
	}
	var items []catalog.Recyclable
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode price cache: %w", err)
	}
	return items, true, nil
}

// Set stores the table with the configured TTL
func (c *RedisPriceCache) Set(ctx context.Context, items []catalog.Recyclable) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode price cache: %w", err)
	}
	if err := c.client.Set(ctx, priceTableKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached table
func (c *RedisPriceCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, priceTableKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate price cache: %w", err)
	}
	return nil
}

// InMemoryPriceCache is a process-local price cache for single instances and tests
type InMemoryPriceCache struct {
	mu        sync.RWMutex
	items     []catalog.Recyclable
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryPriceCache creates an in-memory price cache
func NewInMemoryPriceCache(ttl time.Duration) *InMemoryPriceCache {
	return &InMemoryPriceCache{ttl: ttl, now: time.Now}
}

// Get returns a copy of the cached table
func (c *InMemoryPriceCache) Get(_ context.Context) ([]catalog.Recyclable, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	out := make([]catalog.Recyclable, len(c.items))
	copy(out, c.items)
	return out, true, nil
}

// Set stores a copy of the table
func (c *InMemoryPriceCache) Set(_ context.Context, items []catalog.Recyclable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]catalog.Recyclable, len(items))
	copy(c.items, items)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Invalidate drops the cached table
func (c *InMemoryPriceCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return nil
}
