package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeySetKey = "identity:jwks"

// RedisKeyCache shares the key set between API instances
type RedisKeyCache struct {
	client redis.Cmdable
	key    string
}

func NewRedisKeyCache(client redis.Cmdable) *RedisKeyCache {
	return &RedisKeyCache{client: client, key: redisKeySetKey}
}

func (c *RedisKeyCache) Get(ctx context.Context) ([]byte, time.Duration, error) {
	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, c.key)
	ttlCmd := pipe.PTTL(ctx, c.key)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("failed to read cached key set: %w", err)
	}

	raw, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrCacheMiss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read cached key set: %w", err)
	}

	// No expiry or a race with expiry both count as a miss
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return nil, 0, ErrCacheMiss
	}

	return raw, ttl, nil
}

func (c *RedisKeyCache) Set(ctx context.Context, raw []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache key set: %w", err)
	}
	return nil
}
