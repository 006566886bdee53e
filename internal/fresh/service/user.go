package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// UserService covers user record management: lookups, identity changes,
// password changes, activation and deletion. Identity renames fan out to
// the cached usernames on linked role records in the same transaction.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	return s.Store.Users().ListUsers(ctx, limit, offset)
}

// UpdateIdentity changes username and e-mail together, refusing values
// already held by another user, and keeps the role-side username caches in
// step.
func (s *UserService) UpdateIdentity(ctx context.Context, userID, username, email string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if other, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		if other.ID != userID {
			return ErrUsernameTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if other, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		if other.ID != userID {
			return ErrEmailTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateIdentity(ctx, userID, username, email); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		if err := tx.Admins().SyncAdminUserName(ctx, userID, username); err != nil {
			return err
		}
		return tx.Accounts().SyncAccountUserName(ctx, userID, username)
	})
}

// UpdatePassword re-hashes and stores a new password. Existing sessions
// stay valid; the credential bundle proves the session key, not the
// password.
func (s *UserService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

// SetActive toggles the user. Deactivation also revokes every session, so
// the lockout is immediate rather than waiting for the next auth check.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetActive(ctx, userID, active); err != nil {
			return err
		}
		if active {
			return nil
		}
		return tx.Sessions().DeleteUserSessions(ctx, userID)
	})
}

// Delete removes a user, severing the role-side halves of any links and
// revoking all sessions in the same transaction. The role records survive,
// unlinked.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if link := user.Roles.Admin; link != nil {
			if err := tx.Admins().SetAdminUserLink(ctx, link.ID, nil); err != nil &&
				!errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		if link := user.Roles.Account; link != nil {
			if err := tx.Accounts().SetAccountUserLink(ctx, link.ID, nil); err != nil &&
				!errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		if err := tx.Sessions().DeleteUserSessions(ctx, userID); err != nil {
			return err
		}
		if err := tx.Users().DeleteUser(ctx, userID); err != nil {
			return err
		}

		slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", userID))
		return nil
	})
}
