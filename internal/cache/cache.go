// Package cache provides a read-through cache over Redis. Backend failures
// are never surfaced to callers: a failed read falls through to the compute
// function and a failed write is only logged.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"storescout/internal/common/logger"
	"storescout/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// TTL tiers by source volatility.
const (
	TTLDaily     = 6 * time.Hour       // business-registry and POI data, refreshed daily upstream
	TTLMonthly   = 7 * 24 * time.Hour  // demographic and property statistics
	TTLQuarterly = 14 * 24 * time.Hour // municipal vitality dataset
)

const writeTimeout = 3 * time.Second

// Cache is a thin layer over a Redis client. A nil client degrades to
// direct compute calls.
type Cache struct {
	client *redis.Client
	logger logger.Logger

	wg sync.WaitGroup
}

func New(client *redis.Client, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

// Key builds a cache key from a source prefix and its discriminating
// parameters so semantically distinct queries never collide.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// GetOrCompute returns the cached value for key when present, otherwise
// calls compute, stores the result with ttl in the background, and returns
// it. Cache backend failures on either path degrade to the compute result.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		switch {
		case err == nil:
			var cached T
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				return cached, nil
			}
			// Undecodable entry: treat as a miss and overwrite below.
			c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		case err == redis.Nil:
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("cache read failed, falling through", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	result, err := compute(ctx)
	if err != nil {
		return result, err
	}

	c.storeAsync(key, result, ttl)
	return result, nil
}

// storeAsync writes the value in a detached task. The read path never waits
// on it and a write failure is only logged.
func (c *Cache) storeAsync(key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serializable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}()
}

// Wait blocks until all in-flight background writes finish. Tests use it to
// observe writes deterministically.
func (c *Cache) Wait() {
	c.wg.Wait()
}
