package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apper-canvas/realmquickcart/internal/domain"
)

const catalogKey = "quickcart:catalog:products"

// CatalogCache implements repository.CatalogCache using Redis. All catalog
// queries are in-memory filters over the full product list, so caching
// that one list covers every read path.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a Redis-backed catalog cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// GetProducts returns the cached list and whether it was present.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get catalog: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return products, true, nil
}

// SetProducts stores the list for the configured TTL.
func (c *CatalogCache) SetProducts(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis del catalog: %w", err)
	}
	return nil
}
