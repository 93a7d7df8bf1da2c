package products

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/craftwise/craftwise-backend/internal/logging"
	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "products:q:" // products:q:{normalized query}
	cacheTTL         = time.Hour
)

// Cache keeps recent provider results in Redis. All failures degrade to a
// miss; the cache never blocks a search.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: cacheTTL}
}

func (c *Cache) Get(ctx context.Context, query string) ([]Product, bool) {
	data, err := c.client.Get(ctx, c.key(query)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("product_cache", "get failed: %v", err)
		return nil, false
	}

	var out []Product
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Cache) Put(ctx context.Context, query string, products []Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(query), data, c.ttl).Err(); err != nil {
		logging.NewLogger(ctx).LogWarnf("product_cache", "set failed: %v", err)
	}
}

func (c *Cache) key(query string) string {
	return productKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}
