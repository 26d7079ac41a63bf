package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storehub/backend/internal/domain/catalog"
)

// DefaultProductTTL bounds how stale a cached product snapshot may get
// before the next read refetches from the stores.
const DefaultProductTTL = 10 * time.Minute

const productKey = "products:session"

// ProductCache holds the per-session product snapshot fetched from all
// stores. The remote stores stay authoritative: the cache only avoids
// refetching within a short working session and is invalidated on every
// write-through mutation.
type ProductCache interface {
	Get(ctx context.Context) ([]catalog.Product, bool, error)
	Set(ctx context.Context, products []catalog.Product) error
	Invalidate(ctx context.Context) error
}

// RedisProductCache implements ProductCache on Redis, sharing the snapshot
// across instances.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ProductCache = (*RedisProductCache)(nil)

// NewRedisProductCache creates a Redis-backed product cache. A zero ttl
// falls back to DefaultProductTTL.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, reporting a miss when absent or expired.
func (c *RedisProductCache) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	data, err := c.client.Get(ctx, productKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: failed to read products: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// Treat a corrupt entry as a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return products, true, nil
}

// Set stores the snapshot with the configured TTL.
func (c *RedisProductCache) Set(ctx context.Context, products []catalog.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("cache: failed to encode products: %w", err)
	}
	if err := c.client.Set(ctx, productKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to write products: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot.
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productKey).Err(); err != nil {
		return fmt.Errorf("cache: failed to invalidate products: %w", err)
	}
	return nil
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
