package prefetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed cache layer.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// RedisCache is a Redis-backed Fetcher implementation. On a miss it consults
// the fallback Fetcher and writes the result back with the configured TTL.
// Values travel as JSON.
type RedisCache[K comparable, V any] struct {
	client    *redis.Client
	log       *slog.Logger
	ttl       time.Duration
	keyPrefix string
	keyOf     func(K) string
	fallback  Fetcher[K, V]
}

// NewRedisCache connects to Redis and returns the cache layer. keyOf renders
// a key into its stable string form.
func NewRedisCache[K comparable, V any](
	ctx context.Context,
	cfg RedisConfig,
	log *slog.Logger,
	keyOf func(K) string,
	fallback Fetcher[K, V],
) (*RedisCache[K, V], error) {
	if log == nil {
		log = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	log.Info("connected to redis", slog.String("addr", cfg.Addr))

	return &RedisCache[K, V]{
		client:    client,
		log:       log,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		keyOf:     keyOf,
		fallback:  fallback,
	}, nil
}

// Fetch returns the cached value for key, falling back on a miss.
func (c *RedisCache[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	var zero V
	redisKey := c.keyPrefix + c.keyOf(key)

	data, err := c.client.Get(ctx, redisKey).Bytes()
	switch {
	case err == nil:
		var value V
		if err := json.Unmarshal(data, &value); err != nil {
			// A corrupt entry is treated as a miss and overwritten.
			c.log.Warn("discarding corrupt cache entry",
				slog.String("key", redisKey), slog.String("error", err.Error()))
		} else {
			return value, nil
		}
	case !errors.Is(err, redis.Nil):
		return zero, fmt.Errorf("redis get %s: %w", redisKey, err)
	}

	if c.fallback == nil {
		return zero, fmt.Errorf("key %s not cached and no fallback configured", redisKey)
	}
	value, err := c.fallback.Fetch(ctx, key)
	if err != nil {
		return zero, err
	}
	if err := c.writeBack(ctx, redisKey, value); err != nil {
		c.log.Warn("cache write-back failed",
			slog.String("key", redisKey), slog.String("error", err.Error()))
	}

	return value, nil
}

func (c *RedisCache[K, V]) writeBack(ctx context.Context, redisKey string, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, redisKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", redisKey, err)
	}

	return nil
}

// Close releases the Redis connection.
func (c *RedisCache[K, V]) Close() error {
	return c.client.Close()
}
