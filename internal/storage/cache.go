package storage

import (
	"context"
	"time"

	"storefront/pkg/redis"

	"go.uber.org/zap"
)

// cached serves key from Redis, falling back to load and filling the cache.
// Cache failures are logged and never fail the read.
func cached[T any](ctx context.Context, kv redis.KV, logger *zap.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if kv == nil {
		return load(ctx)
	}

	var v T
	found, err := redis.GetJSON(ctx, kv, key, &v)
	if err != nil {
		logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}

	if err := redis.SetJSON(ctx, kv, key, v, ttl); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
