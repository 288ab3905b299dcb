package service

import (
	"context"
	"strconv"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter over the cache. The first request
// of a window creates the counter with the window as its TTL; when it
// expires the next request starts a new window at 1.
type RateLimiter struct {
	Cache cachex.KeyValueStore
}

// IsAllowed counts this request against key and reports whether the count
// is still within maxRequests. Cache errors fail open.
func (l *RateLimiter) IsAllowed(ctx context.Context, key string, maxRequests int, window time.Duration) bool {
	n, err := l.Cache.Increment(ctx, rateLimitPrefix+key, window)
	if err != nil {
		slogx.FromContext(ctx).Error("rate limit increment failed", "key", key, "error", err)
		return true
	}
	return n <= int64(maxRequests)
}

// GetRemaining returns how many requests key has left in its window.
func (l *RateLimiter) GetRemaining(ctx context.Context, key string, maxRequests int) int {
	raw, ok, err := l.Cache.Get(ctx, rateLimitPrefix+key)
	if err != nil || !ok {
		return maxRequests
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return maxRequests
	}
	return max(0, maxRequests-n)
}
