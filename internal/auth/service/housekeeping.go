package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cachex"
)

// HousekeepingService periodically cleans up expired records to prevent
// unbounded growth of reset tokens, API keys, and in-process cache entries.
type HousekeepingService struct {
	Store    store.Store
	Cache    cachex.Sweeper // optional
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, cache cachex.Sweeper, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Cache:    cache,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup. A service
// that was never started returns immediately.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each deletion is independent; failures in one
// won't stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Now().UTC()
	var total int64

	if n, err := s.Store.ResetTokens().DeleteExpiredResetTokens(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired reset tokens", "error", err)
	} else {
		s.Logger.Debug("deleted expired reset tokens", "count", n)
		total += n
	}

	if n, err := s.Store.APIKeys().DeleteExpiredAPIKeys(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired api keys", "error", err)
	} else {
		s.Logger.Debug("deleted expired api keys", "count", n)
		total += n
	}

	if s.Cache != nil {
		n := s.Cache.Sweep()
		s.Logger.Debug("swept local cache", "count", n)
		total += int64(n)
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted", total)
}
