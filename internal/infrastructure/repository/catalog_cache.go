package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	domainRepo "github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "pos:catalog:products"

type memoryCatalogCache struct {
	mu        sync.RWMutex
	products  []entity.Product
	expiresAt time.Time
}

// NewMemoryCatalogCache keeps the snapshot in process.
func NewMemoryCatalogCache() domainRepo.CatalogCache {
	return &memoryCatalogCache{}
}

func (c *memoryCatalogCache) Get(ctx context.Context) ([]entity.Product, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.products == nil || time.Now().After(c.expiresAt) {
		return nil, false, nil
	}
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out, true, nil
}

func (c *memoryCatalogCache) Set(ctx context.Context, products []entity.Product, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = make([]entity.Product, len(products))
	copy(c.products, products)
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

func (c *memoryCatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	return nil
}

type redisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache shares the snapshot between terminals through redis.
func NewRedisCatalogCache(client *redis.Client) domainRepo.CatalogCache {
	return &redisCatalogCache{client: client}
}

func (c *redisCatalogCache) Get(ctx context.Context) ([]entity.Product, bool, error) {
	val, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []entity.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, products []entity.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogCacheKey, data, ttl).Err()
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogCacheKey).Err()
}
