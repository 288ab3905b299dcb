package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
)

type Config struct {
	HTTPAddr string // HTTP listen address (default: :8080)
	Env      string // Environment (dev, staging, prod) (default: dev)

	LogLevel  string    // Log level (debug, info, warn, error) (default: info)
	LogFormat string    // Log format (json, text) (default: json)
	LogOutput io.Writer // Not read from the environment; stdout when nil

	Issuer        string        // Issuer claim for tokens (default: identity)
	AccessSecret  string        // Required: HS256 secret for access tokens
	RefreshSecret string        // Required: HS256 secret for refresh tokens, must differ from AccessSecret
	AccessExpiry  time.Duration // Access token lifetime (default: 15m)
	RefreshExpiry time.Duration // Refresh token lifetime (default: 7d)
	Algorithm     string        // JWT algorithm, only HS256 is accepted

	PepperFile string // Path to file containing pepper for password hashing (default: ./pepper)

	MaxLoginAttempts int           // Failed logins before lockout (default: 5)
	LockDuration     time.Duration // Lockout length (default: 15m)

	OTPLength      int           // Digits per OTP (default: 6)
	OTPExpiry      time.Duration // OTP lifetime (default: 5m)
	OTPMaxAttempts int           // Wrong codes before the OTP is discarded (default: 3)

	RateLimitWindow      time.Duration // Window for general authenticated endpoints (default: 1m)
	RateLimitMaxRequests int           // Requests per window for general authenticated endpoints (default: 20)

	RedisHost     string        // Optional: Redis host, in-process cache only when empty
	RedisPort     int           // Redis port (default: 6379)
	RedisDB       int           // Redis database (default: 0)
	RedisPassword string        // Optional: Redis password
	RedisTimeout  time.Duration // Redis dial/read/write timeout (default: 2s)
	RedisPrefix   string        // Key prefix in Redis (default: identity:)

	StoreDriver  string // Store driver (memory, sqlite) (default: memory)
	DatabaseFile string // Path to SQLite database file (default: ./auth.db)

	FrontendURL          string        // Base URL for links sent to users (default: http://localhost:3000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	SSO map[string]SSOConfig // keyed by provider name
}

type SSOConfig struct {
	ClientID    string
	RedirectURI string
}

var ssoProviders = []string{"google", "facebook", "microsoft"}

func LoadConfig() Config {
	cfg := Config{
		HTTPAddr:  getEnvOrDefault("HTTP_ADDR", ":8080"),
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Issuer:        getEnvOrDefault("AUTH_ISSUER", "identity"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessExpiry:  getEnvDurationOrDefault("JWT_ACCESS_EXPIRY", 15*time.Minute),
		RefreshExpiry: getEnvDurationOrDefault("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		Algorithm:     getEnvOrDefault("JWT_ALGORITHM", "HS256"),

		PepperFile: getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		MaxLoginAttempts: getEnvIntOrDefault("BRUTE_FORCE_MAX_ATTEMPTS", 5),
		LockDuration:     getEnvDurationOrDefault("BRUTE_FORCE_LOCK_TIME", 15*time.Minute),

		OTPLength:      getEnvIntOrDefault("MFA_OTP_LENGTH", 6),
		OTPExpiry:      getEnvDurationOrDefault("MFA_OTP_EXPIRY", 5*time.Minute),
		OTPMaxAttempts: getEnvIntOrDefault("MFA_OTP_ATTEMPTS", 3),

		RateLimitWindow:      getEnvDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMaxRequests: getEnvIntOrDefault("RATE_LIMIT_MAX_REQUESTS", 20),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvIntOrDefault("REDIS_PORT", 6379),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisTimeout:  getEnvDurationOrDefault("REDIS_TIMEOUT", 2*time.Second),
		RedisPrefix:   getEnvOrDefault("REDIS_PREFIX", "identity:"),

		StoreDriver:  getEnvOrDefault("STORE_DRIVER", "memory"),
		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),

		FrontendURL:          strings.TrimRight(getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"), "/"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		SSO: map[string]SSOConfig{},
	}

	for _, name := range ssoProviders {
		prefix := "SSO_" + strings.ToUpper(name) + "_"
		cfg.SSO[name] = SSOConfig{
			ClientID:    os.Getenv(prefix + "CLIENT_ID"),
			RedirectURI: os.Getenv(prefix + "REDIRECT_URI"),
		}
	}

	return cfg
}

var (
	ErrMissingSecrets = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	ErrSharedSecrets  = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
)

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return ErrMissingSecrets
	}
	if c.AccessSecret == c.RefreshSecret {
		return ErrSharedSecrets
	}
	if c.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT_ALGORITHM %q: only HS256 is supported", c.Algorithm)
	}
	switch c.StoreDriver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MaxLoginAttempts < 1 {
		return fmt.Errorf("BRUTE_FORCE_MAX_ATTEMPTS must be at least 1, got %d", c.MaxLoginAttempts)
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return fmt.Errorf("MFA_OTP_LENGTH must be between 4 and 10, got %d", c.OTPLength)
	}
	if c.OTPMaxAttempts < 1 {
		return fmt.Errorf("MFA_OTP_ATTEMPTS must be at least 1, got %d", c.OTPMaxAttempts)
	}
	return nil
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// GeneralRateLimit is the limit for refresh, logout and API key writes.
// RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW set the base, and the
// RATELIMIT_MODERATE_* overrides are applied on top.
func (c Config) GeneralRateLimit() httpx.RateLimitConfig {
	base := httpx.ModerateLimit
	if c.RateLimitMaxRequests > 0 {
		base.RequestsPerWindow = c.RateLimitMaxRequests
		base.Burst = c.RateLimitMaxRequests
	}
	if c.RateLimitWindow > 0 {
		base.Window = c.RateLimitWindow
	}
	return httpx.ParseRateLimitFromEnv("MODERATE", base)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
