package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fintrackhq/fintrack/pkg/logger"
)

const (
	// DefaultTTL bounds how stale a cached category listing can get even
	// if an invalidation is lost.
	DefaultTTL = 5 * time.Minute

	categoriesKey = "categories:all"
)

// Cache is a Redis-backed read-through cache for the category listing.
// Ledger rows are never cached; every balance read goes to the store.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewCache creates a category cache with the default TTL.
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return NewCacheWithTTL(client, DefaultTTL, log)
}

// NewCacheWithTTL creates a category cache with a custom TTL.
func NewCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "cache"),
	}
}

// GetCategories retrieves the cached category listing. The second return
// is false on a miss.
func (c *Cache) GetCategories(ctx context.Context, dest any) (bool, error) {
	val, err := c.client.Get(ctx, categoriesKey).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "key", categoriesKey)
		return false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", categoriesKey, "error", err)
		return false, fmt.Errorf("failed to get cached categories: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached categories: %w", err)
	}

	c.logger.Debug("cache hit", "key", categoriesKey)
	return true, nil
}

// SetCategories stores the category listing.
func (c *Cache) SetCategories(ctx context.Context, categories any) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "key", categoriesKey, "error", err)
		return fmt.Errorf("failed to set cached categories: %w", err)
	}
	return nil
}

// InvalidateCategories drops the cached listing after a category mutation.
func (c *Cache) InvalidateCategories(ctx context.Context) error {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		c.logger.Error("cache error", "operation", "del", "key", categoriesKey, "error", err)
		return fmt.Errorf("failed to invalidate cached categories: %w", err)
	}
	return nil
}

// Health checks the Redis connection.
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
