package service

import (
	"context"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
)

// ErrReservedGroup reports an attempt to modify or delete the root group.
var ErrReservedGroup = errors.New("reserved_group")

// AdminGroupService manages permission groups. The root group is reserved:
// it exists to be a membership marker and cannot be renamed, re-permitted
// or deleted.
type AdminGroupService struct {
	Store store.Store
}

// Create registers a group under the slug of its name.
func (s *AdminGroupService) Create(ctx context.Context, name string, perms domain.PermissionMap) (domain.AdminGroup, error) {
	id := domain.GroupID(name)
	if id == domain.RootGroupID {
		return domain.AdminGroup{}, ErrReservedGroup
	}

	now := time.Now().UTC()
	group := domain.AdminGroup{
		ID:          id,
		Name:        name,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.AdminGroups().CreateAdminGroup(ctx, group); err != nil {
		return domain.AdminGroup{}, err
	}
	return group, nil
}

func (s *AdminGroupService) GetByID(ctx context.Context, id string) (domain.AdminGroup, error) {
	return s.Store.AdminGroups().GetAdminGroupByID(ctx, id)
}

func (s *AdminGroupService) List(ctx context.Context, limit, offset int) ([]domain.AdminGroup, int, error) {
	return s.Store.AdminGroups().ListAdminGroups(ctx, limit, offset)
}

// UpdateName renames a group and refreshes the name cached on admin
// memberships.
func (s *AdminGroupService) UpdateName(ctx context.Context, id, name string) error {
	if id == domain.RootGroupID {
		return ErrReservedGroup
	}
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.AdminGroups().UpdateAdminGroupName(ctx, id, name); err != nil {
			return err
		}
		return tx.Admins().SyncGroupName(ctx, id, name)
	})
}

// SetPermissions replaces a group's permission grants. Admins in the group
// feel the change on their next request; their sessions stay valid because
// permission resolution reads group records live.
func (s *AdminGroupService) SetPermissions(ctx context.Context, id string, perms domain.PermissionMap) error {
	if id == domain.RootGroupID {
		return ErrReservedGroup
	}
	return s.Store.AdminGroups().SetAdminGroupPermissions(ctx, id, perms)
}

// Delete removes a group. Memberships pointing at it stop granting
// anything; the root group is refused.
func (s *AdminGroupService) Delete(ctx context.Context, id string) error {
	if id == domain.RootGroupID {
		return ErrReservedGroup
	}
	return s.Store.AdminGroups().DeleteAdminGroup(ctx, id)
}
