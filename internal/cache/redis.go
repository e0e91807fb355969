package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/logging"
)

// Cache wraps Redis client
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// HashKey derives a stable key from its parts (MD5 hex, 32 chars).
// The same parts always produce the same key.
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// namespaceKey prefixes a key with the application namespace
func (c *Cache) namespaceKey(key string) string {
	return "brandpulse:" + key
}

// Get retrieves a value from cache. Returns redis.Nil error on missing keys.
func (c *Cache) Get(key string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrCacheDisabled
	}
	return c.client.Get(c.ctx, c.namespaceKey(key)).Result()
}

// GetMulti retrieves multiple values in one round trip. The returned slice
// is positionally aligned with keys; missing entries are nil.
func (c *Cache) GetMulti(keys []string) ([]interface{}, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheDisabled
	}
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = c.namespaceKey(key)
	}
	return c.client.MGet(c.ctx, namespaced...).Result()
}

// Set sets a value in cache with TTL
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(c.ctx, c.namespaceKey(key), value, ttl).Err()
}

// SetMulti writes multiple key/value pairs with one TTL using a pipeline.
// Writes are best-effort: a failed pipeline is reported but individual
// command errors are not unwound.
func (c *Cache) SetMulti(values map[string]interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	pipe := c.client.Pipeline()
	for key, value := range values {
		pipe.Set(c.ctx, c.namespaceKey(key), value, ttl)
	}
	_, err := pipe.Exec(c.ctx)
	return err
}

// Delete removes a key from cache
func (c *Cache) Delete(key string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(c.ctx, c.namespaceKey(key)).Err()
}

// Exists checks if a key exists
func (c *Cache) Exists(key string) (bool, error) {
	if c == nil || c.client == nil {
		return false, ErrCacheDisabled
	}
	count, err := c.client.Exists(c.ctx, c.namespaceKey(key)).Result()
	return count > 0, err
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
)
