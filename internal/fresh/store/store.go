package store

import (
	"context"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Sub-repositories keep concerns tidy and testable and give
// transactional call sites the same surface as the plain store.
type Store interface {
	Users() Users
	Sessions() Sessions
	AuthAttempts() AuthAttempts
	Admins() Admins
	AdminGroups() AdminGroups
	Accounts() Accounts
	Statuses() Statuses

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for multi-document
	// updates that must land together (role linking, identity renames).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Username and email collisions surface as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername looks a user up by exact (lowercased) username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail looks a user up by exact (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns users ordered by id with total count for paging.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error)

	// UpdateIdentity sets username and email together and bumps updated_at.
	UpdateIdentity(ctx context.Context, userID, username, email string) error

	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	SetActive(ctx context.Context, userID string, active bool) error

	// SetVerifyGrant replaces the pending e-mail verification grant; nil
	// clears it.
	SetVerifyGrant(ctx context.Context, userID string, grant *domain.TokenGrant) error

	// SetResetGrant replaces the pending password reset grant; nil clears it.
	SetResetGrant(ctx context.Context, userID string, grant *domain.TokenGrant) error

	// SetRoleLink writes the user-side half of a role linkage; nil clears
	// the slot for that kind.
	SetRoleLink(ctx context.Context, userID string, kind domain.RoleKind, link *domain.RoleLink) error

	// ClearExpiredGrants wipes verification and reset grants whose expiry
	// passed before cutoff (housekeeping).
	ClearExpiredGrants(ctx context.Context, cutoff time.Time) error

	DeleteUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// CreateSession persists a session record. The domain Session's Key
	// field is ignored; only KeyHash is stored.
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// ListUserSessions returns all live sessions for a user, newest first.
	ListUserSessions(ctx context.Context, userID string) ([]domain.Session, error)

	UpdateLastActive(ctx context.Context, id string, at time.Time) error

	DeleteSession(ctx context.Context, id string) error

	// DeleteUserSession deletes one session only if it belongs to userID.
	DeleteUserSession(ctx context.Context, id, userID string) error

	// DeleteUserSessions revokes every session the user holds, forcing a
	// fresh login everywhere.
	DeleteUserSessions(ctx context.Context, userID string) error
}

type AuthAttempts interface {
	// CreateAuthAttempt appends one failed-login row.
	CreateAuthAttempt(ctx context.Context, a domain.AuthAttempt) error

	// CountByIP counts attempts from ip recorded at or after since.
	CountByIP(ctx context.Context, ip string, since time.Time) (int, error)

	// CountByIPAndUsername counts attempts from ip against username
	// recorded at or after since.
	CountByIPAndUsername(ctx context.Context, ip, username string, since time.Time) (int, error)

	// DeleteBefore drops attempts older than cutoff (housekeeping).
	DeleteBefore(ctx context.Context, cutoff time.Time) error
}

type Admins interface {
	CreateAdmin(ctx context.Context, a domain.Admin) error

	// GetAdminByID returns the admin with groups (in membership order) and
	// permission overrides loaded.
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)

	// GetAdminByUsername finds the admin linked to the given username.
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)

	ListAdmins(ctx context.Context, limit, offset int) ([]domain.Admin, int, error)

	UpdateAdminName(ctx context.Context, adminID string, name domain.Name) error

	// SetAdminGroups replaces the membership list, preserving the given
	// order for permission resolution.
	SetAdminGroups(ctx context.Context, adminID string, groups []domain.GroupMembership) error

	SetAdminPermissions(ctx context.Context, adminID string, perms domain.PermissionMap) error

	// SetAdminUserLink writes the admin-side half of a user linkage; nil
	// clears it.
	SetAdminUserLink(ctx context.Context, adminID string, link *domain.UserLink) error

	// SyncAdminUserName refreshes the cached username on whichever admin is
	// linked to userID. A no-op when no admin is linked.
	SyncAdminUserName(ctx context.Context, userID, username string) error

	// SyncGroupName refreshes the group name cached on memberships after a
	// group rename.
	SyncGroupName(ctx context.Context, groupID, name string) error

	DeleteAdmin(ctx context.Context, adminID string) error
}

type AdminGroups interface {
	CreateAdminGroup(ctx context.Context, g domain.AdminGroup) error

	GetAdminGroupByID(ctx context.Context, id string) (domain.AdminGroup, error)

	ListAdminGroups(ctx context.Context, limit, offset int) ([]domain.AdminGroup, int, error)

	UpdateAdminGroupName(ctx context.Context, id, name string) error

	SetAdminGroupPermissions(ctx context.Context, id string, perms domain.PermissionMap) error

	DeleteAdminGroup(ctx context.Context, id string) error
}

type Accounts interface {
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername finds the account linked to the given username.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, int, error)

	UpdateAccountName(ctx context.Context, accountID string, name domain.Name) error

	// SetAccountUserLink writes the account-side half of a user linkage;
	// nil clears it.
	SetAccountUserLink(ctx context.Context, accountID string, link *domain.UserLink) error

	// SyncAccountUserName refreshes the cached username on whichever
	// account is linked to userID. A no-op when no account is linked.
	SyncAccountUserName(ctx context.Context, userID, username string) error

	// AddAccountNote appends to the account's note log.
	AddAccountNote(ctx context.Context, accountID string, note domain.NoteEntry) error

	ListAccountNotes(ctx context.Context, accountID string) ([]domain.NoteEntry, error)

	// SetAccountStatus makes entry the current status and appends it to the
	// history.
	SetAccountStatus(ctx context.Context, accountID string, entry domain.StatusEntry) error

	// ListAccountStatusHistory returns the append-only status log, oldest
	// first.
	ListAccountStatusHistory(ctx context.Context, accountID string) ([]domain.StatusEntry, error)

	DeleteAccount(ctx context.Context, accountID string) error
}

type Statuses interface {
	CreateStatus(ctx context.Context, s domain.Status) error

	GetStatusByID(ctx context.Context, id string) (domain.Status, error)

	ListStatuses(ctx context.Context, limit, offset int) ([]domain.Status, int, error)

	UpdateStatusName(ctx context.Context, id, name string) error

	DeleteStatus(ctx context.Context, id string) error
}
