package app

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		HTTPAddr:  ":0",
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
		LogOutput: io.Discard,

		Issuer:        "identity-test",
		AccessSecret:  "test-access-secret-0123456789abcdef",
		RefreshSecret: "test-refresh-secret-0123456789abcdef",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
		Algorithm:     "HS256",

		PepperFile: filepath.Join(t.TempDir(), "pepper"),

		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		OTPLength:        6,
		OTPExpiry:        5 * time.Minute,
		OTPMaxAttempts:   3,

		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 20,

		RedisTimeout: 50 * time.Millisecond,
		RedisPrefix:  "identity-test:",

		StoreDriver:          "memory",
		FrontendURL:          "http://localhost:3000",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNew_GeneralRateLimitOverride(t *testing.T) {
	t.Setenv("RATELIMIT_MODERATE_REQUESTS", "50")
	moderate := httpx.ModerateLimit

	application, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	require.Equal(t, 50, application.router.GeneralLimit.RequestsPerWindow)
	require.Equal(t, 20, application.router.GeneralLimit.Burst)
	require.Equal(t, time.Minute, application.router.GeneralLimit.Window)

	// The package profile is left as it was.
	require.Equal(t, moderate, httpx.ModerateLimit)
}

func TestNew_CacheBackends(t *testing.T) {
	t.Run("local without redis", func(t *testing.T) {
		application, err := New(testConfig(t))
		require.NoError(t, err)
		t.Cleanup(func() { _ = application.db.Close() })

		require.IsType(t, &cachex.LocalStore{}, application.cache)
		require.Nil(t, application.remote)
	})

	t.Run("redis always sits behind the fallback", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RedisHost = "127.0.0.1"
		cfg.RedisPort = 1 // nothing listens here

		application, err := New(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = application.Shutdown() })

		require.IsType(t, &cachex.FallbackStore{}, application.cache)
		require.NotNil(t, application.remote)

		// Writes keep working while Redis is down.
		ctx := t.Context()
		require.NoError(t, application.cache.Set(ctx, "k", "v", time.Minute))
		v, ok, err := application.cache.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "v", v)
	})
}
