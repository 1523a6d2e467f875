package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential-guessing attempts with a fixed window
// counter per key in Redis. It fails open: if Redis is unreachable the login
// path keeps working and the miss is logged.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewLoginLimiter creates a login rate limiter. A nil client disables
// limiting entirely.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow reports whether another login attempt is permitted for the key.
func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	if l.client == nil || l.limit <= 0 {
		return true
	}

	redisKey := fmt.Sprintf("login_attempts:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request",
			slog.String("error", err.Error()),
		)
		return true
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.WarnContext(ctx, "failed to set rate limit window",
				slog.String("error", err.Error()),
			)
		}
	}

	return count <= int64(l.limit)
}

// Reset clears the attempt counter for a key, used after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if l.client == nil {
		return
	}
	if err := l.client.Del(ctx, fmt.Sprintf("login_attempts:%s", key)).Err(); err != nil {
		l.logger.WarnContext(ctx, "failed to reset rate limit counter",
			slog.String("error", err.Error()),
		)
	}
}
