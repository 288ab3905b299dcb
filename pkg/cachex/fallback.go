package cachex

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultCooldown is how long the fallback bypasses the remote back-end
// after a connectivity failure before probing it again.
const DefaultCooldown = 5 * time.Second

// FallbackStore routes every call to Remote and, on a connectivity-class
// failure, serves it from Local instead. Command errors from Remote are
// returned unchanged. A nil Remote means local-only operation.
//
// Reads that miss on Remote also consult Local so entries written during an
// outage (blacklisted tokens in particular) stay visible after recovery.
type FallbackStore struct {
	Remote   KeyValueStore
	Local    *LocalStore
	Logger   *slog.Logger
	Cooldown time.Duration

	downUntil atomic.Int64 // unix nanos; 0 when remote is considered healthy
	now       func() time.Time
}

func NewFallbackStore(remote KeyValueStore, local *LocalStore, logger *slog.Logger) *FallbackStore {
	if local == nil {
		local = NewLocalStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{
		Remote:   remote,
		Local:    local,
		Logger:   logger,
		Cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// remoteUsable reports whether the remote should be tried right now.
func (s *FallbackStore) remoteUsable() bool {
	if s.Remote == nil {
		return false
	}
	until := s.downUntil.Load()
	return until == 0 || s.now().UnixNano() >= until
}

// degrade reports whether err should be served from Local, marking the
// remote down when it is a connectivity failure.
func (s *FallbackStore) degrade(op, key string, err error) bool {
	if !IsConnectivityError(err) {
		return false
	}
	cooldown := s.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	prev := s.downUntil.Swap(s.now().Add(cooldown).UnixNano())
	if prev == 0 {
		s.Logger.Warn("cache remote unavailable, using local fallback",
			"op", op, "key", key, "error", err)
	} else {
		s.Logger.Debug("cache remote still unavailable", "op", op, "key", key, "error", err)
	}
	return true
}

func (s *FallbackStore) recovered() {
	if s.downUntil.Swap(0) != 0 {
		s.Logger.Info("cache remote recovered")
	}
}

// Degraded reports whether the remote is currently bypassed.
func (s *FallbackStore) Degraded() bool {
	return s.Remote != nil && !s.remoteUsable()
}

func (s *FallbackStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.remoteUsable() {
		v, ok, err := s.Remote.Get(ctx, key)
		if err == nil {
			s.recovered()
			if ok {
				return v, true, nil
			}
			return s.Local.Get(ctx, key)
		}
		if !s.degrade("get", key, err) {
			return "", false, err
		}
	}
	return s.Local.Get(ctx, key)
}

func (s *FallbackStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.remoteUsable() {
		err := s.Remote.Set(ctx, key, value, ttl)
		if err == nil {
			s.recovered()
			return nil
		}
		if !s.degrade("set", key, err) {
			return err
		}
	}
	return s.Local.Set(ctx, key, value, ttl)
}

func (s *FallbackStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.remoteUsable() {
		n, err := s.Remote.Increment(ctx, key, ttl)
		if err == nil {
			s.recovered()
			return n, nil
		}
		if !s.degrade("incr", key, err) {
			return 0, err
		}
	}
	return s.Local.Increment(ctx, key, ttl)
}

func (s *FallbackStore) Exists(ctx context.Context, key string) (bool, error) {
	if s.remoteUsable() {
		ok, err := s.Remote.Exists(ctx, key)
		if err == nil {
			s.recovered()
			if ok {
				return true, nil
			}
			return s.Local.Exists(ctx, key)
		}
		if !s.degrade("exists", key, err) {
			return false, err
		}
	}
	return s.Local.Exists(ctx, key)
}

func (s *FallbackStore) Delete(ctx context.Context, keys ...string) error {
	_ = s.Local.Delete(ctx, keys...)
	if !s.remoteUsable() {
		return nil
	}
	err := s.Remote.Delete(ctx, keys...)
	if err == nil {
		s.recovered()
		return nil
	}
	if s.degrade("del", "", err) {
		return nil
	}
	return err
}

// Ping checks the remote back-end; it fails while the store is degraded so
// readiness can surface the outage even though requests keep being served.
func (s *FallbackStore) Ping(ctx context.Context) error {
	if s.Remote == nil {
		return nil
	}
	if err := s.Remote.Ping(ctx); err != nil {
		s.degrade("ping", "", err)
		return err
	}
	s.recovered()
	return nil
}

// Sweep drops expired entries from the local store.
func (s *FallbackStore) Sweep() int { return s.Local.Sweep() }
