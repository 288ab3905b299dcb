package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	bl := &Blacklist{Cache: env.cache}

	require.False(t, bl.IsBlacklisted(ctx, "tok"))

	require.NoError(t, bl.Add(ctx, "tok", time.Minute))
	require.True(t, bl.IsBlacklisted(ctx, "tok"))
	require.False(t, bl.IsBlacklisted(ctx, "other"))

	env.clock.Advance(time.Minute)
	require.False(t, bl.IsBlacklisted(ctx, "tok"), "entry lives only as long as the token")
}

func TestBlacklistNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	bl := &Blacklist{Cache: env.cache}

	require.NoError(t, bl.Add(ctx, "expired", 0))
	require.NoError(t, bl.Add(ctx, "expired", -time.Second))
	require.False(t, bl.IsBlacklisted(ctx, "expired"))
	require.Zero(t, env.cache.Len())
}

func TestBlacklistStoresFingerprint(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	bl := &Blacklist{Cache: env.cache}

	require.NoError(t, bl.Add(ctx, "raw.jwt.value", time.Minute))

	ok, err := env.cache.Exists(ctx, "blacklist:token:raw.jwt.value")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = env.cache.Exists(ctx, blacklistKey("raw.jwt.value"))
	require.NoError(t, err)
	require.True(t, ok)
}
