package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type adminsRepo struct {
	q dbtx
}

const adminColumns = `id, first_name, last_name, user_id, user_name, created_at, updated_at`

func scanAdmin(row scanner) (domain.Admin, error) {
	var (
		a                domain.Admin
		userID, userName sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name.First, &a.Name.Last, &userID, &userName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Admin{}, err
	}
	if userID.Valid {
		a.User = &domain.UserLink{ID: userID.String, Username: mapNullString(userName)}
	}
	return a, nil
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	var userID, userName sql.NullString
	if a.User != nil {
		userID = mapStringNull(a.User.ID)
		userName = mapStringNull(a.User.Username)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO admins (id, first_name, last_name, user_id, user_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name.First, a.Name.Last, userID, userName, a.CreatedAt, a.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	a, err := scanAdmin(row)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	if err := r.loadGroupsAndPermissions(ctx, &a); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE user_name = ?`, username)
	a, err := scanAdmin(row)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	if err := r.loadGroupsAndPermissions(ctx, &a); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}

func (r *adminsRepo) ListAdmins(ctx context.Context, limit, offset int) ([]domain.Admin, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+adminColumns+` FROM admins ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, err
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range admins {
		if err := r.loadGroupsAndPermissions(ctx, &admins[i]); err != nil {
			return nil, 0, err
		}
	}
	return admins, total, nil
}

// loadGroupsAndPermissions hydrates memberships (in the order they were
// assigned, which drives permission resolution) and per-admin overrides.
func (r *adminsRepo) loadGroupsAndPermissions(ctx context.Context, a *domain.Admin) error {
	rows, err := r.q.QueryContext(ctx, `
		SELECT group_id, group_name FROM admin_group_members
		WHERE admin_id = ? ORDER BY position`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.GroupMembership
		if err := rows.Scan(&m.GroupID, &m.Name); err != nil {
			return err
		}
		a.Groups = append(a.Groups, m)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	perms, err := loadPermissions(ctx, r.q,
		`SELECT permission, allowed FROM admin_permissions WHERE admin_id = ?`, a.ID)
	if err != nil {
		return err
	}
	a.Permissions = perms
	return nil
}

func loadPermissions(ctx context.Context, q dbtx, query, id string) (domain.PermissionMap, error) {
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := domain.PermissionMap{}
	for rows.Next() {
		var (
			key     string
			allowed int
		)
		if err := rows.Scan(&key, &allowed); err != nil {
			return nil, err
		}
		perms[key] = allowed != 0
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, nil
	}
	return perms, nil
}

func (r *adminsRepo) UpdateAdminName(ctx context.Context, adminID string, name domain.Name) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE admins SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		name.First, name.Last, time.Now().UTC(), adminID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *adminsRepo) SetAdminGroups(ctx context.Context, adminID string, groups []domain.GroupMembership) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM admin_group_members WHERE admin_id = ?`, adminID); err != nil {
		return err
	}
	for i, g := range groups {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO admin_group_members (admin_id, group_id, group_name, position)
			VALUES (?, ?, ?, ?)`,
			adminID, g.GroupID, g.Name, i); err != nil {
			return mapConflict(err)
		}
	}
	return r.touch(ctx, adminID)
}

func (r *adminsRepo) SetAdminPermissions(ctx context.Context, adminID string, perms domain.PermissionMap) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM admin_permissions WHERE admin_id = ?`, adminID); err != nil {
		return err
	}
	for key, allowed := range perms {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO admin_permissions (admin_id, permission, allowed)
			VALUES (?, ?, ?)`,
			adminID, key, boolToInt(allowed)); err != nil {
			return mapConflict(err)
		}
	}
	return r.touch(ctx, adminID)
}

func (r *adminsRepo) SetAdminUserLink(ctx context.Context, adminID string, link *domain.UserLink) error {
	var userID, userName sql.NullString
	if link != nil {
		userID = mapStringNull(link.ID)
		userName = mapStringNull(link.Username)
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE admins SET user_id = ?, user_name = ?, updated_at = ? WHERE id = ?`,
		userID, userName, time.Now().UTC(), adminID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *adminsRepo) SyncAdminUserName(ctx context.Context, userID, username string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE admins SET user_name = ?, updated_at = ? WHERE user_id = ?`,
		username, time.Now().UTC(), userID)
	return err
}

func (r *adminsRepo) SyncGroupName(ctx context.Context, groupID, name string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE admin_group_members SET group_name = ? WHERE group_id = ?`,
		name, groupID)
	return err
}

func (r *adminsRepo) DeleteAdmin(ctx context.Context, adminID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, adminID)
	return err
}

func (r *adminsRepo) touch(ctx context.Context, adminID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE admins SET updated_at = ? WHERE id = ?`, time.Now().UTC(), adminID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
