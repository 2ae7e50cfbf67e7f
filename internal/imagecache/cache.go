// Package imagecache is a Redis-backed byte cache for proxied images.
package imagecache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluebrandly-api/internal/config"
)

// Cache stores fetched image bodies with their content type under a TTL
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache creates a Redis image cache
func NewCache(cfg *config.RedisConfig, logger *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func cacheKey(url string) string {
	return "imgproxy:" + url
}

// Get returns the cached content type and body for a URL, or ok=false on
// a miss. Redis errors count as misses.
func (c *Cache) Get(ctx context.Context, url string) (contentType string, body []byte, ok bool) {
	fields, err := c.client.HGetAll(ctx, cacheKey(url)).Result()
	if err != nil {
		c.logger.Warn("image cache read failed", "error", err)
		return "", nil, false
	}
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields["ct"], []byte(fields["body"]), true
}

// Set stores a fetched image under the configured TTL
func (c *Cache) Set(ctx context.Context, url, contentType string, body []byte) error {
	key := cacheKey(url)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, "ct", contentType, "body", body)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching image: %w", err)
	}
	return nil
}
