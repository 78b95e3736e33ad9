package weather

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/version"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "weather"

// RedisCache shares cached results between gateway instances. Redis enforces
// the TTL; read and write failures are logged and behave like a miss.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache wraps an already connected client. A non-positive ttl selects DefaultCacheTTL.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) key(location string) string {
	return version.GenerateVersionedCacheKey(redisKeyPrefix, location)
}

func (c *RedisCache) Get(ctx context.Context, location string) (Result, bool) {
	raw, err := c.rdb.Get(ctx, c.key(location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("location", location).Msg("redis GET failed for weather cache")
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn().Err(err).Str("location", location).Msg("discarding undecodable weather cache entry")
		return Result{}, false
	}
	return result, true
}

func (c *RedisCache) Set(ctx context.Context, location string, result Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode weather result for cache")
		return
	}
	if err := c.rdb.Set(ctx, c.key(location), raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("location", location).Msg("redis SET failed for weather cache")
	}
}
