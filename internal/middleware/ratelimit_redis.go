// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix namespaces limiter keys in Redis.
const rateKeyPrefix = "ratelimit:"

// RedisLimiter provides rate limiting shared across instances using a
// fixed window counter (INCR + EXPIRE). Fails open on Redis errors so a
// cache outage never blocks generations.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter that allows limit requests per window
// per key, backed by the given Redis client.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the key's window counter and checks it against the
// limit. The first hit in a window sets the expiry.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	rkey := rateKeyPrefix + key

	n, err := rl.client.Incr(ctx, rkey).Result()
	if err != nil {
		slog.Warn("rate limiter redis incr failed, allowing request", "key", key, "error", err)
		return true
	}
	if n == 1 {
		if err := rl.client.Expire(ctx, rkey, rl.window).Err(); err != nil {
			slog.Warn("rate limiter redis expire failed", "key", key, "error", err)
		}
	}

	return n <= int64(rl.limit)
}
