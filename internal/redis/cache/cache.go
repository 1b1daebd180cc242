// Package cache is a read-through JSON cache in Redis for remote lookups that
// change rarely (categories, field schemas, commission configuration).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ironbid:"

type Cache struct {
	rdc *redis.Client
	ttl time.Duration
}

func New(rdc *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdc: rdc, ttl: ttl}
}

// GetOrLoad returns the cached value for key or calls load and stores its
// result. Redis failures only cost a cache miss; load errors are returned
// and never cached. A nil Cache always loads.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.rdc == nil {
		return load(ctx)
	}
	k := keyPrefix + key

	raw, err := c.rdc.Get(ctx, k).Result()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal([]byte(raw), &v); jsonErr == nil {
			return v, nil
		}
		zap.L().Warn("cache.decode", zap.String("key", k))
	case !errors.Is(err, redis.Nil):
		zap.L().Warn("cache.get", zap.String("key", k), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.rdc.Set(ctx, k, string(b), c.ttl).Err(); err != nil {
		zap.L().Warn("cache.set", zap.String("key", k), zap.Error(err))
	}
	return v, nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || c.rdc == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return c.rdc.Del(ctx, full...).Err()
}
