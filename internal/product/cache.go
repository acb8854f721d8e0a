package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache getters when nothing is stored.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores read results in front of the repository. Failures are
// reported but callers treat them as misses.
type Cache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	SetProduct(ctx context.Context, p *Product) error
	GetList(ctx context.Context) ([]Product, error)
	SetList(ctx context.Context, products []Product) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

const listKey = "products:all"

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id.String())
}

// RedisCache keeps JSON encoded products in Redis with a fixed TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	if err := c.get(ctx, productKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisCache) SetProduct(ctx context.Context, p *Product) error {
	return c.set(ctx, productKey(p.ID), p)
}

func (c *RedisCache) GetList(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, listKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisCache) SetList(ctx context.Context, products []Product) error {
	return c.set(ctx, listKey, products)
}

// Invalidate drops the cached product and the cached list in one round trip.
func (c *RedisCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productKey(id), listKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to cache: %w", key, err)
	}
	return nil
}

// NoopCache never stores anything. Used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetProduct(context.Context, uuid.UUID) (*Product, error) { return nil, ErrCacheMiss }
func (NoopCache) SetProduct(context.Context, *Product) error               { return nil }
func (NoopCache) GetList(context.Context) ([]Product, error)               { return nil, ErrCacheMiss }
func (NoopCache) SetList(context.Context, []Product) error                 { return nil }
func (NoopCache) Invalidate(context.Context, uuid.UUID) error              { return nil }
