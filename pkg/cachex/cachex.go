// Package cachex is the key-value layer under the blacklist, rate limiter
// and OTP engine. A RemoteStore talks to Redis, a LocalStore keeps entries in
// process memory, and a FallbackStore composes the two so that a Redis outage
// degrades to local state instead of failing requests.
package cachex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a connectivity-class failure of the remote back-end.
var ErrUnavailable = errors.New("cachex: backend unavailable")

// KeyValueStore is a string key-value store with per-key TTL. A ttl <= 0
// means the entry never expires.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Increment adds one to the counter at key, creating it at 1. The ttl is
	// only applied when the counter is created.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Sweeper is implemented by stores that can drop expired entries eagerly.
type Sweeper interface {
	Sweep() int
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, s KeyValueStore, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cachex: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw), ttl)
}

// GetJSON loads the JSON value at key into v, reporting whether it existed.
func GetJSON(ctx context.Context, s KeyValueStore, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("cachex: decode %s: %w", key, err)
	}
	return true, nil
}
