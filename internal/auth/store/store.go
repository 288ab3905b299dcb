package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement this and expose sub-repositories to keep concerns tidy and
// testable. Every mutation that races (login counters, single-use tokens) is
// a single conditional statement in the driver, so no transaction API is
// exposed.
type Store interface {
	Users() Users
	APIKeys() APIKeys
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists when the
	// username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// RecordFailedLogin atomically increments login_attempts and, when the
	// new count reaches maxAttempts, locks the user until lockUntil.
	// Returns the updated user.
	RecordFailedLogin(ctx context.Context, userID string, maxAttempts int, lockUntil time.Time) (domain.User, error)

	// RecordSuccessfulLogin resets login_attempts and stamps last_login_at.
	RecordSuccessfulLogin(ctx context.Context, userID string, at time.Time) error

	// LockUser sets status=locked with the given expiry.
	LockUser(ctx context.Context, userID string, until time.Time) error

	// UnlockUser sets status=active, clears locked_until and resets attempts.
	UnlockUser(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateMFA sets the MFA flag and delivery method.
	UpdateMFA(ctx context.Context, userID string, enabled bool, method domain.MFAMethod) error

	// AddSSOProvider links a provider name to the user; linking twice is a no-op.
	AddSSOProvider(ctx context.Context, userID string, provider string) error
}

type APIKeys interface {
	CreateAPIKey(ctx context.Context, k domain.APIKey) error

	// GetAPIKeyByHash returns the key with the given fingerprint.
	GetAPIKeyByHash(ctx context.Context, hash string) (domain.APIKey, error)

	// TouchAPIKey stamps last_used_at.
	TouchAPIKey(ctx context.Context, id string, at time.Time) error

	// ListAPIKeysByUser returns the user's keys, newest first.
	ListAPIKeysByUser(ctx context.Context, userID string) ([]domain.APIKey, error)

	// RevokeAPIKey flips active=false. ErrNotFound if the key does not
	// exist or is owned by someone else.
	RevokeAPIKey(ctx context.Context, id, userID string) error

	// DeleteAPIKey removes the key. ErrNotFound as for RevokeAPIKey.
	DeleteAPIKey(ctx context.Context, id, userID string) error

	// DeleteExpiredAPIKeys is housekeeping.
	DeleteExpiredAPIKeys(ctx context.Context, now time.Time) (int64, error)
}

type ResetTokens interface {
	CreateResetToken(ctx context.Context, t domain.ResetToken) error
	GetResetToken(ctx context.Context, hash string) (domain.ResetToken, error)

	// MarkResetTokenUsed sets used=true only if it was false. ErrNotFound if
	// the token is absent or already used, so exactly one caller wins.
	MarkResetTokenUsed(ctx context.Context, hash string) error

	DeleteResetToken(ctx context.Context, hash string) error

	// DeleteExpiredResetTokens removes expired and used tokens (housekeeping).
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
