package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, email, password_hash, is_active,
	admin_role_id, admin_role_name, account_role_id, account_role_name,
	verify_token_hash, verify_expires, reset_token_hash, reset_expires,
	created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u                              domain.User
		isActive                       int
		adminRoleID, adminRoleName     sql.NullString
		accountRoleID, accountRoleName sql.NullString
		verifyHash, resetHash          sql.NullString
		verifyExpires, resetExpires    sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &isActive,
		&adminRoleID, &adminRoleName, &accountRoleID, &accountRoleName,
		&verifyHash, &verifyExpires, &resetHash, &resetExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.IsActive = isActive != 0
	if adminRoleID.Valid {
		u.Roles.Admin = &domain.RoleLink{
			Kind: domain.RoleAdmin,
			ID:   adminRoleID.String,
			Name: mapNullString(adminRoleName),
		}
	}
	if accountRoleID.Valid {
		u.Roles.Account = &domain.RoleLink{
			Kind: domain.RoleAccount,
			ID:   accountRoleID.String,
			Name: mapNullString(accountRoleName),
		}
	}
	if verifyHash.Valid && verifyExpires.Valid {
		u.Verify = &domain.TokenGrant{TokenHash: verifyHash.String, Expires: verifyExpires.Time}
	}
	if resetHash.Valid && resetExpires.Valid {
		u.ResetPassword = &domain.TokenGrant{TokenHash: resetHash.String, Expires: resetExpires.Time}
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, boolToInt(u.IsActive),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *usersRepo) UpdateIdentity(ctx context.Context, userID, username, email string) error {
	return r.exec(ctx, `
		UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`,
		username, email, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.exec(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx, `
		UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), time.Now().UTC(), userID)
}

func (r *usersRepo) SetVerifyGrant(ctx context.Context, userID string, grant *domain.TokenGrant) error {
	hash, expires := grantColumns(grant)
	return r.exec(ctx, `
		UPDATE users SET verify_token_hash = ?, verify_expires = ?, updated_at = ? WHERE id = ?`,
		hash, expires, time.Now().UTC(), userID)
}

func (r *usersRepo) SetResetGrant(ctx context.Context, userID string, grant *domain.TokenGrant) error {
	hash, expires := grantColumns(grant)
	return r.exec(ctx, `
		UPDATE users SET reset_token_hash = ?, reset_expires = ?, updated_at = ? WHERE id = ?`,
		hash, expires, time.Now().UTC(), userID)
}

func (r *usersRepo) SetRoleLink(ctx context.Context, userID string, kind domain.RoleKind, link *domain.RoleLink) error {
	var id, name sql.NullString
	if link != nil {
		id = mapStringNull(link.ID)
		name = mapStringNull(link.Name)
	}

	switch kind {
	case domain.RoleAdmin:
		return r.exec(ctx, `
			UPDATE users SET admin_role_id = ?, admin_role_name = ?, updated_at = ? WHERE id = ?`,
			id, name, time.Now().UTC(), userID)
	case domain.RoleAccount:
		return r.exec(ctx, `
			UPDATE users SET account_role_id = ?, account_role_name = ?, updated_at = ? WHERE id = ?`,
			id, name, time.Now().UTC(), userID)
	}
	return nil
}

func (r *usersRepo) ClearExpiredGrants(ctx context.Context, cutoff time.Time) error {
	if _, err := r.q.ExecContext(ctx, `
		UPDATE users SET verify_token_hash = NULL, verify_expires = NULL
		WHERE verify_expires IS NOT NULL AND verify_expires < ?`, cutoff); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `
		UPDATE users SET reset_token_hash = NULL, reset_expires = NULL
		WHERE reset_expires IS NOT NULL AND reset_expires < ?`, cutoff)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

// exec runs an UPDATE that must touch exactly one row and maps a miss to
// store.ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func grantColumns(grant *domain.TokenGrant) (sql.NullString, sql.NullTime) {
	if grant == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return mapStringNull(grant.TokenHash), sql.NullTime{Time: grant.Expires, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
