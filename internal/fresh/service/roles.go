package service

import (
	"context"
	"errors"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
)

// RoleService resolves a user's linked role records and answers group and
// permission questions about them. Hydration is memoized on the user value,
// so a request that asks several authorization questions pays for the role
// lookups once.
type RoleService struct {
	Store store.Store
}

// Hydrate fetches the full admin/account records referenced by the user's
// role links. A link whose target record has been deleted out from under it
// hydrates as nil rather than failing the request.
func (s *RoleService) Hydrate(ctx context.Context, u *domain.User) (*domain.HydratedRoles, error) {
	if cached := u.CachedHydratedRoles(); cached != nil {
		return cached, nil
	}

	roles := &domain.HydratedRoles{}

	if link := u.Roles.Admin; link != nil {
		admin, err := s.Store.Admins().GetAdminByID(ctx, link.ID)
		switch {
		case err == nil:
			roles.Admin = &admin
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	if link := u.Roles.Account; link != nil {
		account, err := s.Store.Accounts().GetAccountByID(ctx, link.ID)
		switch {
		case err == nil:
			roles.Account = &account
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	u.CacheHydratedRoles(roles)
	return roles, nil
}

// IsMemberOf reports whether the user's admin role belongs to the given
// group. Users without an admin role are members of nothing.
func (s *RoleService) IsMemberOf(ctx context.Context, u *domain.User, groupID string) (bool, error) {
	roles, err := s.Hydrate(ctx, u)
	if err != nil {
		return false, err
	}
	if roles.Admin == nil {
		return false, nil
	}
	return roles.Admin.IsMemberOf(groupID), nil
}

// HasPermission answers a permission question for the user's admin role.
// Per-admin overrides are consulted before group grants, groups in
// membership order; the first defined answer wins and silence denies.
// Members of the root group hold every permission.
func (s *RoleService) HasPermission(ctx context.Context, u *domain.User, key string) (bool, error) {
	roles, err := s.Hydrate(ctx, u)
	if err != nil {
		return false, err
	}
	admin := roles.Admin
	if admin == nil {
		return false, nil
	}
	if admin.IsRoot() {
		return true, nil
	}

	sources := []domain.PermissionSource{admin.Permissions}
	for _, m := range admin.Groups {
		group, err := s.Store.AdminGroups().GetAdminGroupByID(ctx, m.GroupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue // membership pointing at a deleted group grants nothing
			}
			return false, err
		}
		sources = append(sources, group.Permissions)
	}

	return domain.ResolvePermission(key, sources...), nil
}
