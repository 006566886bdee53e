package sqlite

import (
	"context"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type adminGroupsRepo struct {
	q dbtx
}

func (r *adminGroupsRepo) CreateAdminGroup(ctx context.Context, g domain.AdminGroup) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO admin_groups (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return mapConflict(err)
	}
	return r.replacePermissions(ctx, g.ID, g.Permissions)
}

func (r *adminGroupsRepo) GetAdminGroupByID(ctx context.Context, id string) (domain.AdminGroup, error) {
	var g domain.AdminGroup
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM admin_groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return domain.AdminGroup{}, mapNotFound(err)
	}

	perms, err := loadPermissions(ctx, r.q,
		`SELECT permission, allowed FROM admin_group_permissions WHERE group_id = ?`, g.ID)
	if err != nil {
		return domain.AdminGroup{}, err
	}
	g.Permissions = perms
	return g, nil
}

func (r *adminGroupsRepo) ListAdminGroups(ctx context.Context, limit, offset int) ([]domain.AdminGroup, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_groups`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM admin_groups
		ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var groups []domain.AdminGroup
	for rows.Next() {
		var g domain.AdminGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range groups {
		perms, err := loadPermissions(ctx, r.q,
			`SELECT permission, allowed FROM admin_group_permissions WHERE group_id = ?`, groups[i].ID)
		if err != nil {
			return nil, 0, err
		}
		groups[i].Permissions = perms
	}
	return groups, total, nil
}

func (r *adminGroupsRepo) UpdateAdminGroupName(ctx context.Context, id, name string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE admin_groups SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *adminGroupsRepo) SetAdminGroupPermissions(ctx context.Context, id string, perms domain.PermissionMap) error {
	if err := r.replacePermissions(ctx, id, perms); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE admin_groups SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *adminGroupsRepo) DeleteAdminGroup(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM admin_groups WHERE id = ?`, id)
	return err
}

func (r *adminGroupsRepo) replacePermissions(ctx context.Context, id string, perms domain.PermissionMap) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM admin_group_permissions WHERE group_id = ?`, id); err != nil {
		return err
	}
	for key, allowed := range perms {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO admin_group_permissions (group_id, permission, allowed)
			VALUES (?, ?, ?)`,
			id, key, boolToInt(allowed)); err != nil {
			return mapConflict(err)
		}
	}
	return nil
}
