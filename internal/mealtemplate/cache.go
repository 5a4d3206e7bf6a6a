package mealtemplate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"meal-planner/internal/logger"
)

const catalogCacheKey = "meal-planner:catalog:v1"

var errCacheMiss = errors.New("cache miss")

// blobCache is the subset of a key/value store the catalog cache needs.
type blobCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisBlobCache struct {
	rdb *goredis.Client
}

func (c redisBlobCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, errCacheMiss
	}
	return b, err
}

func (c redisBlobCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c redisBlobCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// CachedCatalog is a read-through cache in front of another Catalog. Cache failures
// are logged and fall back to the underlying catalog.
type CachedCatalog struct {
	next  Catalog
	cache blobCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewCachedCatalog(next Catalog, rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	return newCachedCatalog(next, redisBlobCache{rdb: rdb}, ttl, log)
}

func newCachedCatalog(next Catalog, cache blobCache, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	return &CachedCatalog{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With("component", "CatalogCache"),
	}
}

func (c *CachedCatalog) List(ctx context.Context) ([]Template, error) {
	b, err := c.cache.Get(ctx, catalogCacheKey)
	switch {
	case err == nil:
		var templates []Template
		if err := json.Unmarshal(b, &templates); err == nil {
			return templates, nil
		}
		c.log.Warn("discarding unreadable catalog cache entry")
	case !errors.Is(err, errCacheMiss):
		c.log.Warn("catalog cache read failed", "error", err)
	}

	templates, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(templates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := c.cache.Set(ctx, catalogCacheKey, data, c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", "error", err)
	}
	return templates, nil
}

// Invalidate drops the cached catalog, e.g. after an import.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	if err := c.cache.Del(ctx, catalogCacheKey); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
