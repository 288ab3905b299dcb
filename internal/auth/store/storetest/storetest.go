// Package storetest holds the behaviour every store driver must satisfy.
// Driver packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated store.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Lockout", func(t *testing.T) { testLockout(t, newStore(t)) })
	t.Run("ConcurrentFailedLogins", func(t *testing.T) { testConcurrentFailedLogins(t, newStore(t)) })
	t.Run("APIKeys", func(t *testing.T) { testAPIKeys(t, newStore(t)) })
	t.Run("ResetTokens", func(t *testing.T) { testResetTokens(t, newStore(t)) })
}

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// NewUser returns a valid user for seeding tests.
func NewUser(username string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		MFAMethod:    domain.MFANone,
		Status:       domain.UserActive,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	alice := NewUser("alice")
	require.NoError(t, users.CreateUser(ctx, alice))

	got, err := users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.Username, got.Username)
	require.Equal(t, alice.Email, got.Email)
	require.Equal(t, domain.UserActive, got.Status)
	require.Nil(t, got.LockedUntil)

	got, err = users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	got, err = users.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	_, err = users.GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Same username, different email.
	dup := NewUser("alice")
	dup.Email = "other@example.com"
	require.ErrorIs(t, users.CreateUser(ctx, dup), store.ErrAlreadyExists)

	// Same email, different username.
	dup = NewUser("alice2")
	dup.Email = alice.Email
	require.ErrorIs(t, users.CreateUser(ctx, dup), store.ErrAlreadyExists)

	require.NoError(t, users.UpdatePasswordHash(ctx, alice.ID, "new-hash"))
	require.NoError(t, users.UpdateMFA(ctx, alice.ID, true, domain.MFAEmail))
	require.NoError(t, users.AddSSOProvider(ctx, alice.ID, "google"))
	require.NoError(t, users.AddSSOProvider(ctx, alice.ID, "google"))
	require.NoError(t, users.AddSSOProvider(ctx, alice.ID, "microsoft"))

	got, err = users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.True(t, got.MFAEnabled)
	require.Equal(t, domain.MFAEmail, got.MFAMethod)
	require.Equal(t, []string{"google", "microsoft"}, got.SSOProviders)

	require.ErrorIs(t, users.UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
}

func testLockout(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	u := NewUser("bob")
	require.NoError(t, users.CreateUser(ctx, u))

	lockUntil := epoch.Add(15 * time.Minute)
	for i := 1; i < 3; i++ {
		got, err := users.RecordFailedLogin(ctx, u.ID, 3, lockUntil)
		require.NoError(t, err)
		require.Equal(t, i, got.LoginAttempts)
		require.Equal(t, domain.UserActive, got.Status)
	}

	got, err := users.RecordFailedLogin(ctx, u.ID, 3, lockUntil)
	require.NoError(t, err)
	require.Equal(t, 3, got.LoginAttempts)
	require.Equal(t, domain.UserLocked, got.Status)
	require.NotNil(t, got.LockedUntil)
	require.True(t, got.LockedUntil.Equal(lockUntil))

	require.NoError(t, users.UnlockUser(ctx, u.ID))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserActive, got.Status)
	require.Zero(t, got.LoginAttempts)
	require.Nil(t, got.LockedUntil)

	_, err = users.RecordFailedLogin(ctx, u.ID, 3, lockUntil)
	require.NoError(t, err)
	require.NoError(t, users.RecordSuccessfulLogin(ctx, u.ID, epoch))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, got.LoginAttempts)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, got.LastLoginAt.Equal(epoch))

	require.NoError(t, users.LockUser(ctx, u.ID, lockUntil))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserLocked, got.Status)

	_, err = users.RecordFailedLogin(ctx, "missing", 3, lockUntil)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testConcurrentFailedLogins(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	u := NewUser("carol")
	require.NoError(t, users.CreateUser(ctx, u))

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.RecordFailedLogin(ctx, u.ID, 100, epoch)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, n, got.LoginAttempts)
}

func testAPIKeys(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("dave")
	require.NoError(t, s.Users().CreateUser(ctx, u))
	other := NewUser("erin")
	require.NoError(t, s.Users().CreateUser(ctx, other))

	keys := s.APIKeys()
	expired := epoch.Add(-time.Hour)
	older := domain.APIKey{ID: "k1", UserID: u.ID, KeyHash: "h1", Name: "ci", Active: true, CreatedAt: epoch}
	newer := domain.APIKey{ID: "k2", UserID: u.ID, KeyHash: "h2", Name: "old", Active: true, CreatedAt: epoch.Add(time.Minute), ExpiresAt: &expired}
	require.NoError(t, keys.CreateAPIKey(ctx, older))
	require.NoError(t, keys.CreateAPIKey(ctx, newer))
	require.ErrorIs(t, keys.CreateAPIKey(ctx, domain.APIKey{ID: "k3", UserID: u.ID, KeyHash: "h1", CreatedAt: epoch}), store.ErrAlreadyExists)

	got, err := keys.GetAPIKeyByHash(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "k1", got.ID)
	require.Nil(t, got.LastUsedAt)

	require.NoError(t, keys.TouchAPIKey(ctx, "k1", epoch))
	got, err = keys.GetAPIKeyByHash(ctx, "h1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)

	list, err := keys.ListAPIKeysByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "k2", list[0].ID, "newest first")

	require.ErrorIs(t, keys.RevokeAPIKey(ctx, "k1", other.ID), store.ErrNotFound)
	require.NoError(t, keys.RevokeAPIKey(ctx, "k1", u.ID))
	got, err = keys.GetAPIKeyByHash(ctx, "h1")
	require.NoError(t, err)
	require.False(t, got.Active)

	n, err := keys.DeleteExpiredAPIKeys(ctx, epoch)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.ErrorIs(t, keys.DeleteAPIKey(ctx, "k1", other.ID), store.ErrNotFound)
	require.NoError(t, keys.DeleteAPIKey(ctx, "k1", u.ID))
	_, err = keys.GetAPIKeyByHash(ctx, "h1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testResetTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("frank")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	tokens := s.ResetTokens()
	live := domain.ResetToken{TokenHash: "live", UserID: u.ID, ExpiresAt: epoch.Add(time.Hour), CreatedAt: epoch}
	stale := domain.ResetToken{TokenHash: "stale", UserID: u.ID, ExpiresAt: epoch.Add(-time.Minute), CreatedAt: epoch}
	require.NoError(t, tokens.CreateResetToken(ctx, live))
	require.NoError(t, tokens.CreateResetToken(ctx, stale))

	got, err := tokens.GetResetToken(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.Used)
	require.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	require.NoError(t, tokens.MarkResetTokenUsed(ctx, "live"))
	require.ErrorIs(t, tokens.MarkResetTokenUsed(ctx, "live"), store.ErrNotFound, "single use")
	require.ErrorIs(t, tokens.MarkResetTokenUsed(ctx, "missing"), store.ErrNotFound)

	got, err = tokens.GetResetToken(ctx, "live")
	require.NoError(t, err)
	require.True(t, got.Used)

	n, err := tokens.DeleteExpiredResetTokens(ctx, epoch)
	require.NoError(t, err)
	require.EqualValues(t, 2, n, "used and expired both purged")

	require.NoError(t, tokens.DeleteResetToken(ctx, "missing"))
}
