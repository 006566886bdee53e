package service

import (
	"context"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/idx"
)

// ErrUnknownGroup reports a group assignment naming a group that does not
// exist.
var ErrUnknownGroup = errors.New("unknown_group")

// AdminService manages staff role records. Changes to an admin's groups or
// permission overrides alter what its linked user may do, so both revoke
// that user's live sessions.
type AdminService struct {
	Store store.Store
}

// Create registers a new admin record. The display name is split on the
// first space into first/last.
func (s *AdminService) Create(ctx context.Context, name string) (domain.Admin, error) {
	now := time.Now().UTC()
	admin := domain.Admin{
		ID:        idx.New().String(),
		Name:      domain.ParseName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, admin); err != nil {
		return domain.Admin{}, err
	}
	return admin, nil
}

func (s *AdminService) GetByID(ctx context.Context, adminID string) (domain.Admin, error) {
	return s.Store.Admins().GetAdminByID(ctx, adminID)
}

func (s *AdminService) List(ctx context.Context, limit, offset int) ([]domain.Admin, int, error) {
	return s.Store.Admins().ListAdmins(ctx, limit, offset)
}

// UpdateName renames the admin and refreshes the name cached on the linked
// user's role slot.
func (s *AdminService) UpdateName(ctx context.Context, adminID, name string) error {
	parsed := domain.ParseName(name)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}
		if err := tx.Admins().UpdateAdminName(ctx, adminID, parsed); err != nil {
			return err
		}
		if admin.User == nil {
			return nil
		}
		link := &domain.RoleLink{Kind: domain.RoleAdmin, ID: adminID, Name: parsed.Full()}
		return tx.Users().SetRoleLink(ctx, admin.User.ID, domain.RoleAdmin, link)
	})
}

// SetGroups replaces the admin's memberships with the given group ids, in
// the given order. Every id must name an existing group; names are cached
// from the group records.
func (s *AdminService) SetGroups(ctx context.Context, adminID string, groupIDs []string) error {
	memberships := make([]domain.GroupMembership, 0, len(groupIDs))
	for _, id := range groupIDs {
		group, err := s.Store.AdminGroups().GetAdminGroupByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownGroup
			}
			return err
		}
		memberships = append(memberships, domain.GroupMembership{GroupID: group.ID, Name: group.Name})
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}
		if err := tx.Admins().SetAdminGroups(ctx, adminID, memberships); err != nil {
			return err
		}
		return revokeLinkedUserSessions(ctx, tx, admin)
	})
}

// SetPermissions replaces the admin's per-admin overrides.
func (s *AdminService) SetPermissions(ctx context.Context, adminID string, perms domain.PermissionMap) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}
		if err := tx.Admins().SetAdminPermissions(ctx, adminID, perms); err != nil {
			return err
		}
		return revokeLinkedUserSessions(ctx, tx, admin)
	})
}

// Delete removes an admin record, clearing the user-side role slot if one
// is linked.
func (s *AdminService) Delete(ctx context.Context, adminID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Admins().GetAdminByID(ctx, adminID)
		if err != nil {
			return err
		}
		if admin.User != nil {
			if err := tx.Users().SetRoleLink(ctx, admin.User.ID, domain.RoleAdmin, nil); err != nil &&
				!errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err := tx.Sessions().DeleteUserSessions(ctx, admin.User.ID); err != nil {
				return err
			}
		}
		return tx.Admins().DeleteAdmin(ctx, adminID)
	})
}

func revokeLinkedUserSessions(ctx context.Context, tx store.Tx, admin domain.Admin) error {
	if admin.User == nil {
		return nil
	}
	return tx.Sessions().DeleteUserSessions(ctx, admin.User.ID)
}
