package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/resenahub/resenahub/pkg/config"
	"github.com/resenahub/resenahub/pkg/logging"
)

// ErrCacheDisabled is returned when cache operations are attempted but
// cache is disabled
var ErrCacheDisabled = fmt.Errorf("cache is disabled")

// ErrCacheMiss is returned when a key is absent
var ErrCacheMiss = redis.Nil

// unreadCountTTL bounds staleness if an invalidation is ever lost
const unreadCountTTL = 5 * time.Minute

// Cache wraps a Redis client. A nil *Cache is valid and reports
// ErrCacheDisabled from every operation, so callers can treat caching
// as best-effort.
type Cache struct {
	client *redis.Client
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

	return &Cache{client: client}, nil
}

// namespaceKey prefixes keys so the instance can share a Redis database
func (c *Cache) namespaceKey(key string) string {
	return "resenahub:" + key
}

// HashKey builds a stable cache key from arbitrary parts
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrCacheDisabled
	}
	return c.client.Get(ctx, c.namespaceKey(key)).Result()
}

// Set sets a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(ctx, c.namespaceKey(key)).Err()
}

// unreadCountKey is the cache slot for a user's unread notification count
func unreadCountKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// GetUnreadCount retrieves a user's cached unread notification count
func (c *Cache) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	val, err := c.Get(ctx, unreadCountKey(userID))
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt unread count for user %d: %w", userID, err)
	}
	return count, nil
}

// SetUnreadCount caches a user's unread notification count
func (c *Cache) SetUnreadCount(ctx context.Context, userID, count int64) error {
	return c.Set(ctx, unreadCountKey(userID), count, unreadCountTTL)
}

// InvalidateUnreadCount drops a user's cached unread notification count
func (c *Cache) InvalidateUnreadCount(ctx context.Context, userID int64) error {
	return c.Delete(ctx, unreadCountKey(userID))
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
