package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper records handled Telegram update IDs in Redis so webhook
// retries and poller restarts do not replay them.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
// Telegram retains undelivered updates for roughly a day, so the TTL should
// be at least that long.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(updateID int64) string {
	return fmt.Sprintf("update:%d", updateID)
}

// Add records the update ID if it does not already exist. It returns true
// when the ID was newly recorded.
func (r *RedisDeduper) Add(ctx context.Context, updateID int64) (bool, error) {
	return r.client.SetNX(ctx, r.key(updateID), 1, r.ttl).Result()
}
