package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, env *testEnv, cache cachex.KeyValueStore) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Issuer:        "identity-test",
	}, &Blacklist{Cache: cache}, cache, env.store)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsSharedSecret(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewTokenService(TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testAccessSecret,
	}, &Blacklist{Cache: env.cache}, env.cache, env.store)
	require.ErrorIs(t, err, ErrSharedSecret)

	_, err = NewTokenService(TokenConfig{
		AccessSecret:  "short",
		RefreshSecret: testRefreshSecret,
	}, &Blacklist{Cache: env.cache}, env.cache, env.store)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)
	u := registerTestUser(t, env, "alice")

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)
	require.Equal(t, int64(jwtx.DefaultAccessTokenTTL.Seconds()), pair.ExpiresIn)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := tokens.VerifyAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, []string{"user"}, claims.Roles)
	require.Equal(t, jwtx.UseAccess, claims.Use)

	rc, err := tokens.VerifyRefresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, rc.ID)

	// Distinct secrets: neither token verifies as the other.
	_, err = tokens.VerifyAccess(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	_, err = tokens.VerifyRefresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = tokens.VerifyAccess(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestVerifyExpired(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)

	expired := signExpired(t, tokens)
	_, err := tokens.VerifyAccess(ctx, expired)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func signExpired(t *testing.T, tokens *TokenService) string {
	t.Helper()
	id := jwtx.Identity{UserID: "user-1", Username: "alice"}
	tok, err := tokens.AccessSigner.Sign(jwtx.NewClaims(jwtx.UseAccess, id, tokens.Issuer, tokens.Audience, time.Minute, time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	return tok
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)
	u := registerTestUser(t, env, "alice")

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, pair.AccessToken))
	_, err = tokens.VerifyAccess(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenRevoked)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	require.NoError(t, tokens.Revoke(ctx, pair.RefreshToken))
	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenRevoked)

	// Expired tokens need no blacklist entry.
	require.NoError(t, tokens.Revoke(ctx, signExpired(t, tokens)))
	require.Equal(t, 2, env.cache.Len())

	require.ErrorIs(t, tokens.Revoke(ctx, "garbage"), ErrInvalidOrExpiredToken)
}

func TestVerifyAndRevokeShareServiceClock(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)
	u := registerTestUser(t, env, "alice")

	issued := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	tokens.Now = func() time.Time { return clock }

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)

	// Not yet valid by the wall clock, live by the service clock.
	clock = issued.Add(time.Minute)
	_, err = tokens.VerifyAccess(ctx, pair.AccessToken)
	require.NoError(t, err)

	// Past expiry on the service clock: rejected, and revoking stores nothing.
	clock = issued.Add(tokens.AccessTTL + time.Minute)
	_, err = tokens.VerifyAccess(ctx, pair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	before := env.cache.Len()
	require.NoError(t, tokens.Revoke(ctx, pair.AccessToken))
	require.Equal(t, before, env.cache.Len())
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)
	u := registerTestUser(t, env, "alice")

	first, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)

	second, err := tokens.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = tokens.VerifyAccess(ctx, second.AccessToken)
	require.NoError(t, err)

	_, err = tokens.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrTokenRevoked, "a rotated refresh token is single use")

	_, err = tokens.Refresh(ctx, second.AccessToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken, "access token is not a refresh token")
}

func TestRefreshLockedUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)
	u := registerTestUser(t, env, "alice")

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)
	require.NoError(t, env.users.Lock(ctx, u.ID, time.Hour))

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestRefreshUnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tokens := newTestTokens(t, env, env.cache)

	pair, err := tokens.IssuePair(ctx, domain.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	mr := miniredis.RunT(t)
	remote := cachex.NewRemoteStore(cachex.RemoteOptions{Addr: mr.Addr(), Prefix: "test:"})
	t.Cleanup(func() { _ = remote.Close() })

	caches := map[string]func(env *testEnv) cachex.KeyValueStore{
		"local":  func(env *testEnv) cachex.KeyValueStore { return env.cache },
		"remote": func(*testEnv) cachex.KeyValueStore { return remote },
	}
	for name, pick := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			tokens := newTestTokens(t, env, pick(env))
			u := registerTestUser(t, env, "alice")

			pair, err := tokens.IssuePair(ctx, u)
			require.NoError(t, err)

			const callers = 16
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				winners int
				revoked int
			)
			for range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := tokens.Refresh(ctx, pair.RefreshToken)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						winners++
					case errors.Is(err, ErrTokenRevoked):
						revoked++
					}
				}()
			}
			wg.Wait()

			require.Equal(t, 1, winners)
			require.Equal(t, callers-1, revoked)
		})
	}
}
