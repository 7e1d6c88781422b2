package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/pkg/metrics"
)

// Redis is a Store backed by a go-redis client. Keys are namespaced by prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// Connect builds a Store from REDIS_ADDR. An empty address yields Noop.
func Connect(ctx context.Context) (Store, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return Noop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return Noop{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return NewRedis(client, "farmermarket:"), nil
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *Redis) Close() error { return r.client.Close() }
