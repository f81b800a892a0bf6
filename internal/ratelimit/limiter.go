// Package ratelimit counts requests per client in a fixed window. Counters
// live in Redis so all instances share them; when Redis is not configured or
// a call fails, the limiter falls back to an in-memory map owned by this
// instance, so limiting degrades to per-instance instead of failing open.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	local map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// New builds a limiter. rdb may be nil, in which case only the local
// fallback is used.
func New(rdb *redis.Client, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		logger: logger.With("component", "ratelimit"),
		local:  make(map[string]*bucket),
	}
}

// Allow reports whether the request identified by key (typically the client
// IP) is within the limit for the current window.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.rdb != nil {
		n, err := l.rdb.Incr(ctx, keyPrefix+key).Result()
		if err == nil {
			if n == 1 {
				l.rdb.Expire(ctx, keyPrefix+key, l.window)
			}
			return n <= int64(l.limit)
		}
		l.logger.WarnContext(ctx, "rate limit store unreachable, using local fallback", "error", err)
	}
	return l.allowLocal(key)
}

func (l *Limiter) allowLocal(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.local[key]
	if !ok || now.After(b.resetAt) {
		l.local[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	b.count++
	return b.count <= l.limit
}
