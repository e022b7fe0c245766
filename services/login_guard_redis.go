// services/login_guard_redis.go
package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginGuardKeyPrefix = "login_guard:"

// RedisRateLimitStore shares one atomic attempt counter per identifier
// across service instances. INCR is atomic in Redis, so increment-and-
// compare holds without any client-side locking; the key's TTL is the
// window boundary.
type RedisRateLimitStore struct {
	Client *redis.Client
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{Client: client}
}

func (s *RedisRateLimitStore) CheckAndConsume(ctx context.Context, identifier string, _ time.Time) (bool, error) {
	key := loginGuardKeyPrefix + identifier

	n, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First attempt opens the window.
		if err := s.Client.PExpire(ctx, key, LoginWindow).Err(); err != nil {
			return false, err
		}
	}
	return n <= LoginMaxAttempts, nil
}

func (s *RedisRateLimitStore) Reset(ctx context.Context, identifier string) error {
	return s.Client.Del(ctx, loginGuardKeyPrefix+identifier).Err()
}
