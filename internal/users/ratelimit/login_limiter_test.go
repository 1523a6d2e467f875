package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func testLimiter(t *testing.T, limit int) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewLoginLimiter(client, limit, time.Minute, log), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	limiter, _ := testLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "alice"), "attempt %d", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "alice"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter, _ := testLimiter(t, 1)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice"))
	assert.False(t, limiter.Allow(ctx, "alice"))
	assert.True(t, limiter.Allow(ctx, "bob"))
}

func TestAllow_WindowExpires(t *testing.T) {
	limiter, mr := testLimiter(t, 1)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice"))
	assert.False(t, limiter.Allow(ctx, "alice"))

	mr.FastForward(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "alice"))
}

func TestReset_ClearsCounter(t *testing.T) {
	limiter, _ := testLimiter(t, 1)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice"))
	assert.False(t, limiter.Allow(ctx, "alice"))

	limiter.Reset(ctx, "alice")
	assert.True(t, limiter.Allow(ctx, "alice"))
}

func TestAllow_DisabledWithoutClient(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	limiter := NewLoginLimiter(nil, 1, time.Minute, log)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(ctx, "alice"))
	}
}

func TestAllow_FailsOpenOnRedisError(t *testing.T) {
	limiter, mr := testLimiter(t, 1)
	mr.Close()

	assert.True(t, limiter.Allow(context.Background(), "alice"))
}
