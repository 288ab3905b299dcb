package app

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")

	cfg := LoadConfig()
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "HS256", cfg.Algorithm)
	require.Equal(t, 15*time.Minute, cfg.AccessExpiry)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshExpiry)
	require.Equal(t, 5, cfg.MaxLoginAttempts)
	require.Equal(t, 6, cfg.OTPLength)
	require.Equal(t, "memory", cfg.StoreDriver)
	require.Empty(t, cfg.RedisAddr())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "900")
	t.Setenv("BRUTE_FORCE_LOCK_TIME", "30m")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("SSO_GOOGLE_CLIENT_ID", "gid")
	t.Setenv("SSO_GOOGLE_REDIRECT_URI", "https://app.example.com/cb")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessExpiry)
	require.Equal(t, 30*time.Minute, cfg.LockDuration)
	require.Equal(t, "cache:6380", cfg.RedisAddr())
	require.Equal(t, "https://app.example.com", cfg.FrontendURL)
	require.Equal(t, SSOConfig{ClientID: "gid", RedirectURI: "https://app.example.com/cb"}, cfg.SSO["google"])
	require.Empty(t, cfg.SSO["facebook"].ClientID)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			AccessSecret:     "access",
			RefreshSecret:    "refresh",
			Algorithm:        "HS256",
			StoreDriver:      "memory",
			MaxLoginAttempts: 5,
			OTPLength:        6,
			OTPMaxAttempts:   3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing secret", func(c *Config) { c.RefreshSecret = "" }, ErrMissingSecrets},
		{"shared secret", func(c *Config) { c.RefreshSecret = c.AccessSecret }, ErrSharedSecrets},
		{"rs256", func(c *Config) { c.Algorithm = "RS256" }, nil},
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }, nil},
		{"zero attempts", func(c *Config) { c.MaxLoginAttempts = 0 }, nil},
		{"short otp", func(c *Config) { c.OTPLength = 3 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			switch {
			case tt.name == "valid":
				require.NoError(t, err)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
			}
		})
	}
}

func TestConfig_GeneralRateLimit(t *testing.T) {
	cfg := Config{RateLimitMaxRequests: 30, RateLimitWindow: 2 * time.Minute}
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 30, Window: 2 * time.Minute, Burst: 30}, cfg.GeneralRateLimit())

	t.Setenv("RATELIMIT_MODERATE_REQUESTS", "50")
	t.Setenv("RATELIMIT_MODERATE_BURST", "60")
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 2 * time.Minute, Burst: 60}, cfg.GeneralRateLimit())
}
