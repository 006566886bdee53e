package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/store"
)

// HousekeepingService periodically clears rows the request path no longer
// needs: auth attempts that have aged out of the blocking window, and
// verification/reset grants past their expiry.
type HousekeepingService struct {
	Store  store.Store
	Logger *slog.Logger

	Interval time.Duration

	// AttemptRetention is how long failed login attempts are kept. It must
	// be at least the guard's blocking window or blocks would end early.
	AttemptRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. Zero or negative
// durations fall back to one hour between runs and the guard's default
// window for retention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = DefaultBlockWindow
	}

	return &HousekeepingService{
		Store:            st,
		Logger:           logger,
		Interval:         interval,
		AttemptRetention: retention,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the actual deletion. Each step is independent; a failure
// in one won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Store.AuthAttempts().DeleteBefore(ctx, now.Add(-s.AttemptRetention)); err != nil {
		s.Logger.Error("failed to delete aged auth attempts", "error", err)
	}

	if err := s.Store.Users().ClearExpiredGrants(ctx, now); err != nil {
		s.Logger.Error("failed to clear expired grants", "error", err)
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
