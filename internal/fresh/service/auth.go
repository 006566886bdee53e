package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/jwtx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// Credentials is what a validated request runs as: the proven session, and
// for the stricter strategy the freshly loaded user behind it.
type Credentials struct {
	Claims  jwtx.SessionClaims
	Session domain.Session
	User    *domain.User // nil under the session-only strategy
}

// Verdict is the outcome of an authentication check. The decision is
// binary: requests either carry valid credentials or they don't. Backend
// faults during the check are logged and fail closed.
type Verdict struct {
	IsValid     bool
	Credentials *Credentials
}

// Deny is the zero verdict, named for readable call sites.
func Deny() Verdict { return Verdict{} }

// AuthService validates presented credential bundles. Two strategies share
// the session proof: VerifySession stops once the session key checks out,
// VerifyUserSession additionally loads the user record and requires it to
// be active. Either way a valid check stamps the session's last-active
// time.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
	Codec    *jwtx.Codec
}

// VerifySession checks a raw bearer token: signature, then session lookup,
// then proof of the session key.
func (s *AuthService) VerifySession(ctx context.Context, raw string) Verdict {
	claims, err := s.Codec.Verify(raw)
	if err != nil {
		return Deny()
	}
	return s.verifyClaims(ctx, claims)
}

// VerifySessionPair checks a bare id/key pair (basic auth form) without the
// signed envelope.
func (s *AuthService) VerifySessionPair(ctx context.Context, sessionID, key string) Verdict {
	return s.verifyClaims(ctx, jwtx.SessionClaims{
		Session: jwtx.SessionRef{ID: sessionID, Key: key},
	})
}

func (s *AuthService) verifyClaims(ctx context.Context, claims jwtx.SessionClaims) Verdict {
	sess, err := s.Sessions.FindByCredentials(ctx, claims.Session.ID, claims.Session.Key)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			slogx.FromContext(ctx).Error("session check failed",
				slog.String("session_id", claims.Session.ID), slog.Any("error", err))
		}
		return Deny()
	}

	if err := s.Sessions.TouchLastActive(ctx, sess.ID); err != nil {
		slogx.FromContext(ctx).Error("last-active stamp failed",
			slog.String("session_id", sess.ID), slog.Any("error", err))
	}

	return Verdict{IsValid: true, Credentials: &Credentials{Claims: claims, Session: sess}}
}

// VerifyUserSession runs the session strategy and then insists the user
// behind it still exists and is active. Deleted and deactivated users lose
// access on their next request, not at some token expiry.
func (s *AuthService) VerifyUserSession(ctx context.Context, raw string) Verdict {
	v := s.VerifySession(ctx, raw)
	if !v.IsValid {
		return Deny()
	}
	return s.attachUser(ctx, v)
}

// VerifyUserSessionPair is VerifyUserSession for the bare id/key form.
func (s *AuthService) VerifyUserSessionPair(ctx context.Context, sessionID, key string) Verdict {
	v := s.VerifySessionPair(ctx, sessionID, key)
	if !v.IsValid {
		return Deny()
	}
	return s.attachUser(ctx, v)
}

func (s *AuthService) attachUser(ctx context.Context, v Verdict) Verdict {
	user, err := s.Store.Users().GetUserByID(ctx, v.Credentials.Session.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("user load failed",
				slog.String("user_id", v.Credentials.Session.UserID), slog.Any("error", err))
		}
		return Deny()
	}
	if !user.IsActive {
		return Deny()
	}

	v.Credentials.User = &user
	return v
}
