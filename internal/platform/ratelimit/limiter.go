// Package ratelimit throttles requests with a fixed-window counter kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces limiter keys in Redis.
const KeyPrefix = "taskflow:ratelimit:"

// Counter increments the hit counter for key and reports the time left in
// the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RedisCounter implements Counter with INCR and EXPIRE.
type RedisCounter struct {
	client redis.UniversalClient
}

// NewRedisCounter wraps client.
func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements Counter. The window starts with the first hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("incr: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("expire: %w", err)
		}
	}
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return count, ttl, nil
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows at most limit hits per key in each window. Counter errors
// are logged and the request is let through.
type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewLimiter creates a Limiter. A nil logger falls back to slog.Default().
func NewLimiter(counter Counter, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	if counter == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("counter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		counter: counter,
		limit:   limit,
		window:  window,
		timeout: 250 * time.Millisecond,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "rate_limiter")),
	}
}

// Allow records a hit for key.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, ttl, err := l.counter.Incr(ctx, KeyPrefix+key, l.window)
	if err != nil {
		l.logger.Error("rate limiter backend error", slog.String("error", err.Error()))
		if count == 0 {
			return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAt: l.now().Add(l.window)}
		}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   int(count) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl),
	}
}
