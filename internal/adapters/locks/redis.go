// Package locks provides the per-investigation pipeline lock: a Redis
// implementation for deployments with more than one process, and an
// in-process fallback for single-node and local runs.
package locks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker implements ports.Locker with SET NX and a TTL so a crashed
// holder cannot wedge an investigation forever.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(addr, password string) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisLocker{client: client}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

func (l *RedisLocker) Close() error { return l.client.Close() }
