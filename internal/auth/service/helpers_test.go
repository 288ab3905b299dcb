package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

const (
	testAccessSecret  = "access-secret-access-secret-0123456789"
	testRefreshSecret = "refresh-secret-refresh-secret-0123456789"
	testPassword      = "StrongPass1!"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fastHasher keeps argon2 cheap so table tests stay quick.
func fastHasher() *cryptox.PasswordHasher {
	return &cryptox.PasswordHasher{
		Pepper: "test-pepper",
		Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
	}
}

type testEnv struct {
	clock *testClock
	cache *cachex.LocalStore
	store *memory.Store
	users *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := newTestClock()
	cache := cachex.NewLocalStore()
	cache.Now = clk.Now
	st := memory.NewStore()
	st.Now = clk.Now

	return &testEnv{
		clock: clk,
		cache: cache,
		store: st,
		users: &UserService{
			Store:            st,
			Hasher:           fastHasher(),
			MaxLoginAttempts: 3,
			LockDuration:     15 * time.Minute,
			Now:              clk.Now,
		},
	}
}

// noExpiryCache drops TTLs so tests can observe the service's own expiry
// checks rather than the cache evicting first.
type noExpiryCache struct {
	*cachex.LocalStore
}

func (c *noExpiryCache) Set(ctx context.Context, key, value string, _ time.Duration) error {
	return c.LocalStore.Set(ctx, key, value, 0)
}

func (c *noExpiryCache) Increment(ctx context.Context, key string, _ time.Duration) (int64, error) {
	return c.LocalStore.Increment(ctx, key, 0)
}
