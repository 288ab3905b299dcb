package cachex

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type localEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LocalStore is an in-process KeyValueStore. Expired entries are removed
// lazily when read; Sweep can be called to reclaim memory in bulk.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]localEntry

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func NewLocalStore() *LocalStore {
	return &LocalStore{
		entries: make(map[string]localEntry),
		Now:     time.Now,
	}
}

// lookup returns the live entry at key, evicting it if it has expired.
// Callers hold mu.
func (s *LocalStore) lookup(key string, now time.Time) (localEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return localEntry{}, false
	}
	if e.expired(now) {
		delete(s.entries, key)
		return localEntry{}, false
	}
	return e, true
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func (s *LocalStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.Now())
	return e.value, ok, nil
}

func (s *LocalStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = localEntry{value: value, expiresAt: expiry(s.Now(), ttl)}
	return nil
}

func (s *LocalStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	e, ok := s.lookup(key, now)
	if !ok {
		s.entries[key] = localEntry{value: "1", expiresAt: expiry(now, ttl)}
		return 1, nil
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	s.entries[key] = e
	return n, nil
}

func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.lookup(key, s.Now())
	return ok, nil
}

func (s *LocalStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *LocalStore) Ping(context.Context) error { return nil }

// Sweep removes every expired entry and returns how many were dropped.
func (s *LocalStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	n := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of entries held, expired or not.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
