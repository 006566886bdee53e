package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// ErrLinkConflict reports an attempt to link a user or role that is already
// linked elsewhere. Existing links are never overwritten; conflicting
// requests fail and leave both records untouched.
var ErrLinkConflict = errors.New("link_conflict")

// LinkService enforces the 1:1 invariant between users and role records.
// Both halves of a link (the user's role slot and the role's user slot) are
// written in one transaction, so a crash can't leave a dangling half-link.
// Linking and unlinking change what the user may do, so both revoke the
// user's live sessions.
type LinkService struct {
	Store store.Store
}

// LinkAdmin ties an admin record to a user. Re-linking an already-linked
// pair is a no-op; any other occupied slot on either side is a conflict.
func (s *LinkService) LinkAdmin(ctx context.Context, adminID, userID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}

		if linked := user.Roles.Admin; linked != nil {
			if linked.ID == adminID && admin.User != nil && admin.User.ID == userID {
				return nil // already linked to each other
			}
			return ErrLinkConflict
		}
		if admin.User != nil {
			return ErrLinkConflict
		}

		roleLink := &domain.RoleLink{Kind: domain.RoleAdmin, ID: admin.ID, Name: admin.FullName()}
		if err := tx.Users().SetRoleLink(ctx, user.ID, domain.RoleAdmin, roleLink); err != nil {
			return err
		}
		userLink := &domain.UserLink{ID: user.ID, Username: user.Username}
		if err := tx.Admins().SetAdminUserLink(ctx, admin.ID, userLink); err != nil {
			return err
		}

		slogx.FromContext(ctx).Info("admin linked",
			slog.String("admin_id", admin.ID), slog.String("user_id", user.ID))
		return tx.Sessions().DeleteUserSessions(ctx, user.ID)
	})
}

// UnlinkAdmin severs an admin's user link. Unlinking an admin that has no
// link is a no-op.
func (s *LinkService) UnlinkAdmin(ctx context.Context, adminID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}
		if admin.User == nil {
			return nil
		}
		userID := admin.User.ID

		if err := tx.Admins().SetAdminUserLink(ctx, admin.ID, nil); err != nil {
			return err
		}
		if err := tx.Users().SetRoleLink(ctx, userID, domain.RoleAdmin, nil); err != nil {
			// The user side may already be gone if the user was deleted.
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		slogx.FromContext(ctx).Info("admin unlinked",
			slog.String("admin_id", admin.ID), slog.String("user_id", userID))
		return tx.Sessions().DeleteUserSessions(ctx, userID)
	})
}

// LinkAccount ties a customer account record to a user, with the same
// conflict rules as LinkAdmin.
func (s *LinkService) LinkAccount(ctx context.Context, accountID, userID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		account, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}

		if linked := user.Roles.Account; linked != nil {
			if linked.ID == accountID && account.User != nil && account.User.ID == userID {
				return nil
			}
			return ErrLinkConflict
		}
		if account.User != nil {
			return ErrLinkConflict
		}

		roleLink := &domain.RoleLink{Kind: domain.RoleAccount, ID: account.ID, Name: account.FullName()}
		if err := tx.Users().SetRoleLink(ctx, user.ID, domain.RoleAccount, roleLink); err != nil {
			return err
		}
		userLink := &domain.UserLink{ID: user.ID, Username: user.Username}
		if err := tx.Accounts().SetAccountUserLink(ctx, account.ID, userLink); err != nil {
			return err
		}

		slogx.FromContext(ctx).Info("account linked",
			slog.String("account_id", account.ID), slog.String("user_id", user.ID))
		return tx.Sessions().DeleteUserSessions(ctx, user.ID)
	})
}

// UnlinkAccount severs an account's user link; idempotent like UnlinkAdmin.
func (s *LinkService) UnlinkAccount(ctx context.Context, accountID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account.User == nil {
			return nil
		}
		userID := account.User.ID

		if err := tx.Accounts().SetAccountUserLink(ctx, account.ID, nil); err != nil {
			return err
		}
		if err := tx.Users().SetRoleLink(ctx, userID, domain.RoleAccount, nil); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		slogx.FromContext(ctx).Info("account unlinked",
			slog.String("account_id", account.ID), slog.String("user_id", userID))
		return tx.Sessions().DeleteUserSessions(ctx, userID)
	})
}
