package credentialstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the keys written by RedisStorage.
const DefaultRedisPrefix = "authclient:"

const clearScanBatch = 100

// RedisStorage persists the session in Redis so several processes acting for the same user
// share one session. Every key is written under prefix; Clear only touches that namespace.
type RedisStorage struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStorage returns a RedisStorage over rdb. An empty prefix selects DefaultRedisPrefix.
func NewRedisStorage(rdb redis.UniversalClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (r *RedisStorage) key(key string) string {
	return r.prefix + key
}

// Get returns the value stored under key or ErrKeyNotFound.
func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key without expiry; the backend decides token lifetime.
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the prefix.
func (r *RedisStorage) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, r.prefix+"*", clearScanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %q: %w", r.prefix, err)
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del %d keys: %w", len(keys), err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
