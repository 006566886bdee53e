package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/idx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

const (
	// DefaultMaxAttemptsPerIP tolerates shared egress points (offices,
	// carrier NAT) before an address-wide block kicks in.
	DefaultMaxAttemptsPerIP = 50

	// DefaultMaxAttemptsPerAccount is the tighter limit for one address
	// hammering one username.
	DefaultMaxAttemptsPerAccount = 7

	// DefaultBlockWindow is how far back failed attempts still count.
	DefaultBlockWindow = 24 * time.Hour
)

// GuardService throttles credential guessing. Every failed login appends an
// attempt row; before checking credentials the login flow asks IsBlocked,
// which compares recent counts against two thresholds (per address, and per
// address+username). Attempts age out of the window rather than being
// cleared on success, matching the append-only log model.
type GuardService struct {
	Store store.Store

	MaxAttemptsPerIP      int
	MaxAttemptsPerAccount int
	BlockWindow           time.Duration
}

// NewGuardService builds a guard with the default thresholds applied where
// the given values are zero or negative.
func NewGuardService(st store.Store, perIP, perAccount int, window time.Duration) *GuardService {
	if perIP <= 0 {
		perIP = DefaultMaxAttemptsPerIP
	}
	if perAccount <= 0 {
		perAccount = DefaultMaxAttemptsPerAccount
	}
	if window <= 0 {
		window = DefaultBlockWindow
	}
	return &GuardService{
		Store:                 st,
		MaxAttemptsPerIP:      perIP,
		MaxAttemptsPerAccount: perAccount,
		BlockWindow:           window,
	}
}

// IsBlocked reports whether login attempts from ip against username should
// be refused outright. Blocking engages once either count reaches its
// threshold, so the attempt that hits the limit is already rejected.
func (s *GuardService) IsBlocked(ctx context.Context, ip, username string) (bool, error) {
	since := time.Now().UTC().Add(-s.BlockWindow)

	byIP, err := s.Store.AuthAttempts().CountByIP(ctx, ip, since)
	if err != nil {
		return false, err
	}
	if byIP >= s.MaxAttemptsPerIP {
		slogx.FromContext(ctx).Info("login blocked by address threshold",
			slog.String("ip", ip), slog.Int("attempts", byIP))
		return true, nil
	}

	byAccount, err := s.Store.AuthAttempts().CountByIPAndUsername(ctx, ip, username, since)
	if err != nil {
		return false, err
	}
	if byAccount >= s.MaxAttemptsPerAccount {
		slogx.FromContext(ctx).Info("login blocked by account threshold",
			slog.String("ip", ip), slog.String("username", username), slog.Int("attempts", byAccount))
		return true, nil
	}

	return false, nil
}

// RecordFailure appends one failed attempt for the ip/username pair.
func (s *GuardService) RecordFailure(ctx context.Context, ip, username string) error {
	return s.Store.AuthAttempts().CreateAuthAttempt(ctx, domain.AuthAttempt{
		ID:        idx.New().String(),
		IP:        ip,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
}
