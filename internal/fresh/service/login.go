package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/jwtx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTooManyAttempts    = errors.New("too_many_attempts")
	ErrAccountDisabled    = errors.New("account_disabled")
	ErrInvalidResetKey    = errors.New("invalid_reset_key")
)

// DefaultResetTTL bounds how long a mailed password-reset key stays
// redeemable.
const DefaultResetTTL = 4 * time.Hour

// LoginService owns the credential flows: login, logout, and the
// forgot/reset password round trip.
type LoginService struct {
	Store    store.Store
	Sessions *SessionService
	Guard    *GuardService
	Codec    *jwtx.Codec
	Mailer   Mailer
	ResetTTL time.Duration
}

// LoginInput carries everything a login decision needs. Username doubles as
// an e-mail address; the lookup tries whichever shape it has.
type LoginInput struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// LoginResult is a successful authentication: the signed credential bundle
// plus the records behind it. Session.Key is plaintext here and nowhere
// else.
type LoginResult struct {
	Token   string
	User    domain.User
	Session domain.Session
}

// Login runs the full password flow: abuse check, credential check, session
// mint, bundle signing. Failed credential checks are recorded with the
// guard before the caller hears about them.
func (s *LoginService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	username := strings.ToLower(strings.TrimSpace(in.Username))

	blocked, err := s.Guard.IsBlocked(ctx, in.IP, username)
	if err != nil {
		return LoginResult{}, err
	}
	if blocked {
		return LoginResult{}, ErrTooManyAttempts
	}

	user, err := s.findByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if err := s.Guard.RecordFailure(ctx, in.IP, username); err != nil {
				return LoginResult{}, err
			}
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if cryptox.VerifyPassword(in.Password, user.PasswordHash) != nil {
		if err := s.Guard.RecordFailure(ctx, in.IP, username); err != nil {
			return LoginResult{}, err
		}
		l.Info("login failed", slog.String("username", username), slog.String("ip", in.IP))
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return LoginResult{}, ErrAccountDisabled
	}

	sess, err := s.Sessions.Create(ctx, user.ID, in.IP, in.UserAgent)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.Codec.Sign(jwtx.NewSessionClaims(
		sess.ID, sess.Key,
		user.ID, user.Username,
		user.Roles.Kinds(),
		s.Codec.Issuer(), time.Now().UTC(),
	))
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID), slog.String("session_id", sess.ID))
	return LoginResult{Token: token, User: user, Session: sess}, nil
}

// findByLogin accepts either a username or an e-mail address.
func (s *LoginService) findByLogin(ctx context.Context, login string) (domain.User, error) {
	if strings.Contains(login, "@") {
		return s.Store.Users().GetUserByEmail(ctx, login)
	}
	return s.Store.Users().GetUserByUsername(ctx, login)
}

// Forgot issues a password-reset grant and mails its key. The key itself is
// never stored; only its hash is, so the mail is the single copy.
func (s *LoginService) Forgot(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	key, hash, err := cryptox.GenerateKeyHash()
	if err != nil {
		return err
	}

	ttl := s.ResetTTL
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	grant := &domain.TokenGrant{TokenHash: hash, Expires: time.Now().UTC().Add(ttl)}
	if err := s.Store.Users().SetResetGrant(ctx, user.ID, grant); err != nil {
		return err
	}

	return s.Mailer.Send(ctx, user.Email, "Reset your password", "forgot-password", map[string]any{
		"username": user.Username,
		"key":      key,
	})
}

// Reset redeems a forgot-password grant: proves possession of the mailed
// key, swaps in the new password, clears the grant and revokes every live
// session so stolen bundles die with the old password.
func (s *LoginService) Reset(ctx context.Context, email, key, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetKey
		}
		return err
	}

	grant := user.ResetPassword
	if grant.Expired(time.Now().UTC()) {
		return ErrInvalidResetKey
	}
	if cryptox.VerifyPassword(key, grant.TokenHash) != nil {
		return ErrInvalidResetKey
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		if err := tx.Users().SetResetGrant(ctx, user.ID, nil); err != nil {
			return err
		}
		return tx.Sessions().DeleteUserSessions(ctx, user.ID)
	}); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// Logout revokes the caller's current session. Revoking a session that is
// already gone is not an error.
func (s *LoginService) Logout(ctx context.Context, sessionID, userID string) error {
	return s.Sessions.DeleteOwnedByID(ctx, sessionID, userID)
}
