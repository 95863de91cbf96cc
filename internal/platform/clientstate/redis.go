// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
)

// Opinionated default timeouts for Redis operations.
const (
	redisDialTimeout  = 3 * time.Second
	redisReadTimeout  = 2 * time.Second
	redisWriteTimeout = 2 * time.Second
	redisPingTimeout  = 2 * time.Second
)

// Redis is a [Storage] that keeps one console namespace in a single hash.
type Redis struct {
	client *redis.Client
	key    string
}

/*
NewRedis parses a Redis URL, verifies connectivity and returns a store bound to namespace.

Parameters:
  - context: context.Context for the initial ping
  - redisURL: string
  - namespace: string
  - logger: *slog.Logger

Returns:
  - *Redis: The ready store
  - error: URL or connectivity failures
*/
func NewRedis(context stdctx.Context, redisURL, namespace string, logger *slog.Logger) (*Redis, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("clientstate: invalid redis URL: %w", err)
	}

	// The console issues a handful of commands per login; a small pool is plenty.
	options.PoolSize = 4
	options.MinIdleConns = 1
	options.MaxIdleConns = 2

	options.DialTimeout = redisDialTimeout
	options.ReadTimeout = redisReadTimeout
	options.WriteTimeout = redisWriteTimeout

	store := NewRedisFromClient(redis.NewClient(options), namespace)

	if err := store.Ping(context); err != nil {
		_ = store.client.Close()
		return nil, err
	}

	logger.Info("clientstate_redis_connected",
		slog.String("addr", options.Addr),
		slog.String("hash", store.key),
	)

	return store, nil
}

// NewRedisFromClient wraps an existing client. The caller keeps ownership of
// connectivity checks; [Redis.Close] still closes the client.
func NewRedisFromClient(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, key: constants.RedisPrefixState + namespace}
}

// Load implements [Storage] with a single HMGET.
func (store *Redis) Load(context stdctx.Context, keys ...string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	values, err := store.client.HMGet(context, store.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("clientstate_redis_load_failed: %w", err)
	}

	for index, value := range values {
		if text, ok := value.(string); ok {
			found[keys[index]] = text
		}
	}
	return found, nil
}

// Save implements [Storage]. The HSET runs inside MULTI/EXEC.
func (store *Redis) Save(context stdctx.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, store.key, entries)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clientstate_redis_save_failed: %w", err)
	}
	return nil
}

// Delete implements [Storage].
func (store *Redis) Delete(context stdctx.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := store.client.HDel(context, store.key, keys...).Err(); err != nil {
		return fmt.Errorf("clientstate_redis_delete_failed: %w", err)
	}
	return nil
}

// Ping verifies that the Redis client is healthy.
func (store *Redis) Ping(context stdctx.Context) error {
	pingCtx, cancel := stdctx.WithTimeout(context, redisPingTimeout)
	defer cancel()

	if err := store.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("clientstate: redis ping failed: %w", err)
	}
	return nil
}

// Close implements [Storage].
func (store *Redis) Close() error {
	return store.client.Close()
}
