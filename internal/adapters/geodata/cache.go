package geodata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Default cache configuration constants.
const (
	defaultCacheTTL    = time.Hour
	defaultCachePrefix = "aureus:geodata:"
)

// RedisClient is the subset of go-redis the cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CacheOption applies a configuration option to the RedisCache.
type CacheOption func(*RedisCache)

// WithCacheTTL sets how long cached collections live.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCachePrefix sets the key prefix.
func WithCachePrefix(prefix string) CacheOption {
	return func(c *RedisCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithCacheLogger sets a custom logger for the cache.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *RedisCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// RedisCache is a cache-aside Source in front of another Source. Redis
// failures are logged and fall through to the wrapped source.
type RedisCache struct {
	client RedisClient
	next   Source
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

// NewRedisCache wraps next with client.
func NewRedisCache(client RedisClient, next Source, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		next:   next,
		ttl:    defaultCacheTTL,
		prefix: defaultCachePrefix,
		logger: logger.Get().Named("geodata_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Source.
func (c *RedisCache) Fetch(ctx context.Context, id string) ([]byte, error) {
	key := c.prefix + id
	b, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		metrics.RecordGeodataCache("hit")
		return b, nil
	case errors.Is(err, redis.Nil):
		metrics.RecordGeodataCache("miss")
	default:
		metrics.RecordGeodataCache("error")
		c.logger.Warn(ctx, "geodata cache read failed", logger.String("key", key), logger.Error(err))
	}

	b, err = c.next.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "geodata cache write failed", logger.String("key", key), logger.Error(err))
	}
	return b, nil
}

// OpenRedis connects to url and pings it. An empty url returns nil, nil:
// the cache is optional.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
