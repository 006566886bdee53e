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
	"github.com/thedevsir/fresh/pkg/idx"
	"github.com/thedevsir/fresh/pkg/jwtx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

var (
	ErrUsernameTaken    = errors.New("username_taken")
	ErrEmailTaken       = errors.New("email_taken")
	ErrInvalidVerifyKey = errors.New("invalid_verify_key")
)

// DefaultVerifyTTL bounds how long a mailed e-mail-verification key stays
// redeemable. Resending issues a fresh grant.
const DefaultVerifyTTL = 72 * time.Hour

// SignupService registers new customers. A signup creates the user, its
// customer account record and the 1:1 link between them in one transaction,
// then logs the user straight in and mails a verification key.
//
// A user is considered e-mail-verified when no verification grant is
// pending.
type SignupService struct {
	Store     store.Store
	Sessions  *SessionService
	Codec     *jwtx.Codec
	Mailer    Mailer
	VerifyTTL time.Duration
}

type SignupInput struct {
	Name      string
	Email     string
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// Signup registers a new user with a linked customer account and returns a
// live login for it.
func (s *SignupService) Signup(ctx context.Context, in SignupInput) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return LoginResult{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, err
	}
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return LoginResult{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, err
	}

	passwordHash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return LoginResult{}, err
	}
	verifyKey, verifyHash, err := cryptox.GenerateKeyHash()
	if err != nil {
		return LoginResult{}, err
	}

	ttl := s.VerifyTTL
	if ttl <= 0 {
		ttl = DefaultVerifyTTL
	}

	now := time.Now().UTC()
	name := domain.ParseName(in.Name)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account := domain.Account{
		ID:        idx.New().String(),
		Name:      name,
		User:      &domain.UserLink{ID: user.ID, Username: user.Username},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// User, account and both halves of their link land together or not at
	// all. A concurrent signup racing the availability checks loses on the
	// unique indexes and rolls back cleanly.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			return err
		}
		link := &domain.RoleLink{Kind: domain.RoleAccount, ID: account.ID, Name: account.FullName()}
		if err := tx.Users().SetRoleLink(ctx, user.ID, domain.RoleAccount, link); err != nil {
			return err
		}
		grant := &domain.TokenGrant{TokenHash: verifyHash, Expires: now.Add(ttl)}
		return tx.Users().SetVerifyGrant(ctx, user.ID, grant)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return LoginResult{}, ErrUsernameTaken
		}
		return LoginResult{}, err
	}

	user.Roles.Account = &domain.RoleLink{Kind: domain.RoleAccount, ID: account.ID, Name: account.FullName()}
	user.Verify = &domain.TokenGrant{TokenHash: verifyHash, Expires: now.Add(ttl)}

	if err := s.Mailer.Send(ctx, user.Email, "Your new account", "welcome", map[string]any{
		"username": user.Username,
		"key":      verifyKey,
	}); err != nil {
		// The account exists either way; verification can be re-sent.
		l.Error("welcome mail failed", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	sess, err := s.Sessions.Create(ctx, user.ID, in.IP, in.UserAgent)
	if err != nil {
		return LoginResult{}, err
	}
	token, err := s.Codec.Sign(jwtx.NewSessionClaims(
		sess.ID, sess.Key,
		user.ID, user.Username,
		user.Roles.Kinds(),
		s.Codec.Issuer(), now,
	))
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("signup completed", slog.String("user_id", user.ID), slog.String("account_id", account.ID))
	return LoginResult{Token: token, User: user, Session: sess}, nil
}

// Verify redeems an e-mail verification key, clearing the pending grant.
func (s *SignupService) Verify(ctx context.Context, email, key string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidVerifyKey
		}
		return err
	}

	grant := user.Verify
	if grant.Expired(time.Now().UTC()) {
		return ErrInvalidVerifyKey
	}
	if cryptox.VerifyPassword(key, grant.TokenHash) != nil {
		return ErrInvalidVerifyKey
	}

	return s.Store.Users().SetVerifyGrant(ctx, user.ID, nil)
}

// ResendVerification replaces any pending grant with a fresh one and mails
// its key. Users with no pending grant are already verified; resending for
// them is refused so the flow cannot be used to probe addresses.
func (s *SignupService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verify == nil {
		return ErrInvalidVerifyKey
	}

	key, hash, err := cryptox.GenerateKeyHash()
	if err != nil {
		return err
	}
	ttl := s.VerifyTTL
	if ttl <= 0 {
		ttl = DefaultVerifyTTL
	}
	grant := &domain.TokenGrant{TokenHash: hash, Expires: time.Now().UTC().Add(ttl)}
	if err := s.Store.Users().SetVerifyGrant(ctx, user.ID, grant); err != nil {
		return err
	}

	return s.Mailer.Send(ctx, user.Email, "Verify your e-mail", "verify-email", map[string]any{
		"username": user.Username,
		"key":      key,
	})
}
