package cachex_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T) (*cachex.RemoteStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := cachex.NewRemoteStore(cachex.RemoteOptions{
		Addr:    mr.Addr(),
		Timeout: 200 * time.Millisecond,
		Prefix:  "test:",
	})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRemoteSetGetExists(t *testing.T) {
	ctx := context.Background()
	s, mr := newRemote(t)

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	require.True(t, mr.Exists("test:k"), "prefix applied")

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	_, ok, err = s.Get(ctx, "nope")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(time.Minute)
	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoteIncrementSetsTTLOnce(t *testing.T) {
	ctx := context.Background()
	s, mr := newRemote(t)

	n, err := s.Increment(ctx, "c", 10*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, 10*time.Second, mr.TTL("test:c"))

	mr.FastForward(6 * time.Second)
	n, err = s.Increment(ctx, "c", 10*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, 4*time.Second, mr.TTL("test:c"), "ttl not refreshed")

	mr.FastForward(4 * time.Second)
	n, err = s.Increment(ctx, "c", 10*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRemoteIncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := newRemote(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ones int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Increment(ctx, "race", time.Minute)
			require.NoError(t, err)
			if n == 1 {
				mu.Lock()
				ones++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, ones)
}

func TestRemoteDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newRemote(t)

	require.NoError(t, s.Set(ctx, "a", "1", 0))
	require.NoError(t, s.Set(ctx, "b", "1", 0))
	require.NoError(t, s.Delete(ctx, "a", "b"))
	require.NoError(t, s.Delete(ctx))
	require.False(t, mr.Exists("test:a"))
	require.False(t, mr.Exists("test:b"))
}

func TestRemoteUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newRemote(t)
	mr.Close()

	err := s.Ping(ctx)
	require.ErrorIs(t, err, cachex.ErrUnavailable)
	require.True(t, cachex.IsConnectivityError(err))
}
