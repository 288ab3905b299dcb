package cachex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimeout bounds dial, read and write on the Redis connection so a
// dead server degrades to the fallback instead of stalling requests.
const DefaultTimeout = 2 * time.Second

// incrScript increments KEYS[1] and arms its expiry (ARGV[1] ms) only when
// the counter was just created, in a single round trip.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 and tonumber(ARGV[1]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

type RemoteOptions struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	Prefix   string // prepended to every key, e.g. "auth:"
}

// RemoteStore is a Redis-backed KeyValueStore.
type RemoteStore struct {
	client *redis.Client
	prefix string
}

// NewRemoteStore builds a client for opts. It does not dial; use Ping.
func NewRemoteStore(opts RemoteOptions) *RemoteStore {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
		MaxRetries:   1,
	})
	return NewRemoteStoreFromClient(client, opts.Prefix)
}

// NewRemoteStoreFromClient wraps an existing client.
func NewRemoteStoreFromClient(client *redis.Client, prefix string) *RemoteStore {
	return &RemoteStore{client: client, prefix: prefix}
}

func (s *RemoteStore) key(k string) string { return s.prefix + k }

func (s *RemoteStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("get", err)
	}
	return v, true, nil
}

func (s *RemoteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return wrap("set", s.client.Set(ctx, s.key(key), value, ttl).Err())
}

func (s *RemoteStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := incrScript.Run(ctx, s.client, []string{s.key(key)}, max(ttl.Milliseconds(), 0)).Int64()
	if err != nil {
		return 0, wrap("incr", err)
	}
	return n, nil
}

func (s *RemoteStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, wrap("exists", err)
	}
	return n > 0, nil
}

func (s *RemoteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return wrap("del", s.client.Del(ctx, full...).Err())
}

func (s *RemoteStore) Ping(ctx context.Context) error {
	return wrap("ping", s.client.Ping(ctx).Err())
}

func (s *RemoteStore) Close() error { return s.client.Close() }

// wrap tags connectivity-class failures with ErrUnavailable so callers can
// tell an outage apart from a command error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsConnectivityError(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("cachex: %s: %w", op, err)
}

// IsConnectivityError reports whether err means the back-end could not be
// reached, as opposed to a command being rejected.
func IsConnectivityError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, redis.ErrPoolTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
