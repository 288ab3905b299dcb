package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/internal/auth/store/storetest"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestResets(t *testing.T, env *testEnv) (*PasswordResetService, string) {
	t.Helper()
	u := storetest.NewUser("forgetful")
	require.NoError(t, env.store.Users().CreateUser(context.Background(), u))
	return &PasswordResetService{Store: env.store, Now: env.clock.Now}, u.ID
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	resets, userID := newTestResets(t, env)

	token, ttl, err := resets.Generate(ctx, userID)
	require.NoError(t, err)
	require.Len(t, token, 43)
	require.Equal(t, time.Hour, ttl)

	got, err := resets.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, userID, got)

	require.NoError(t, resets.MarkUsed(ctx, token))
	_, err = resets.Validate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidResetToken, "used stays used")
	require.ErrorIs(t, resets.MarkUsed(ctx, token), ErrInvalidResetToken)
}

func TestPasswordResetExpiry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	resets, userID := newTestResets(t, env)

	token, _, err := resets.Generate(ctx, userID)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	_, err = resets.Validate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = env.store.ResetTokens().GetResetToken(ctx, cryptox.FingerprintToken(token))
	require.ErrorIs(t, err, store.ErrNotFound, "expired token is deleted on sight")
}

func TestPasswordResetRevokeAndUnknown(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	resets, userID := newTestResets(t, env)

	_, err := resets.Validate(ctx, "never-issued")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	token, _, err := resets.Generate(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, resets.Revoke(ctx, token))
	_, err = resets.Validate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetSingleWinner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	resets, userID := newTestResets(t, env)

	token, _, err := resets.Generate(ctx, userID)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if resets.MarkUsed(ctx, token) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}
