package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newUser(username string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	users := s.Users()

	u := newUser("ren")
	require.NoError(t, users.CreateUser(ctx, u))

	t.Run("lookups", func(t *testing.T) {
		byID, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "ren", byID.Username)
		require.True(t, byID.IsActive)
		require.Nil(t, byID.Roles.Admin)
		require.Nil(t, byID.Verify)

		byName, err := users.GetUserByUsername(ctx, "ren")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)

		byEmail, err := users.GetUserByEmail(ctx, "ren@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		_, err = users.GetUserByUsername(ctx, "stimpy")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		dupe := newUser("ren")
		dupe.Email = "other@example.com"
		require.ErrorIs(t, users.CreateUser(ctx, dupe), store.ErrAlreadyExists)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dupe := newUser("ren2")
		dupe.Email = "ren@example.com"
		require.ErrorIs(t, users.CreateUser(ctx, dupe), store.ErrAlreadyExists)
	})

	t.Run("role links round trip", func(t *testing.T) {
		link := &domain.RoleLink{Kind: domain.RoleAccount, ID: "A1", Name: "Ren Höek"}
		require.NoError(t, users.SetRoleLink(ctx, u.ID, domain.RoleAccount, link))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Roles.Account)
		require.Equal(t, "A1", got.Roles.Account.ID)
		require.Equal(t, "Ren Höek", got.Roles.Account.Name)
		require.Nil(t, got.Roles.Admin)

		require.NoError(t, users.SetRoleLink(ctx, u.ID, domain.RoleAccount, nil))
		got, err = users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.Roles.Account)
	})

	t.Run("token grants round trip", func(t *testing.T) {
		grant := &domain.TokenGrant{TokenHash: "hash", Expires: time.Now().UTC().Add(time.Hour)}
		require.NoError(t, users.SetVerifyGrant(ctx, u.ID, grant))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Verify)
		require.Equal(t, "hash", got.Verify.TokenHash)
		require.WithinDuration(t, grant.Expires, got.Verify.Expires, time.Second)

		require.NoError(t, users.SetVerifyGrant(ctx, u.ID, nil))
		got, err = users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.Verify)
	})

	t.Run("identity and password updates", func(t *testing.T) {
		require.NoError(t, users.UpdateIdentity(ctx, u.ID, "hoek", "hoek@example.com"))
		require.NoError(t, users.UpdatePasswordHash(ctx, u.ID, "new-hash"))
		require.NoError(t, users.SetActive(ctx, u.ID, false))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "hoek", got.Username)
		require.Equal(t, "hoek@example.com", got.Email)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.False(t, got.IsActive)

		require.ErrorIs(t, users.UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
	})

	t.Run("list with paging", func(t *testing.T) {
		require.NoError(t, users.CreateUser(ctx, newUser("stimpy")))
		require.NoError(t, users.CreateUser(ctx, newUser("sven")))

		page, total, err := users.ListUsers(ctx, 2, 0)
		require.NoError(t, err)
		require.Equal(t, 3, total)
		require.Len(t, page, 2)

		rest, total, err := users.ListUsers(ctx, 2, 2)
		require.NoError(t, err)
		require.Equal(t, 3, total)
		require.Len(t, rest, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, u.ID))
		_, err := users.GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSessionsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sessions := s.Sessions()

	userID := idx.New().String()
	now := time.Now().UTC()

	mkSession := func() domain.Session {
		return domain.Session{
			ID:         idx.New().String(),
			UserID:     userID,
			Key:        "plaintext-key-should-never-be-stored",
			KeyHash:    "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			IP:         "127.0.0.1",
			UserAgent:  "go-test",
			CreatedAt:  now,
			LastActive: now,
		}
	}

	first := mkSession()
	second := mkSession()
	require.NoError(t, sessions.CreateSession(ctx, first))
	require.NoError(t, sessions.CreateSession(ctx, second))

	t.Run("plaintext key is not persisted", func(t *testing.T) {
		got, err := sessions.GetSessionByID(ctx, first.ID)
		require.NoError(t, err)
		require.Empty(t, got.Key)
		require.Equal(t, first.KeyHash, got.KeyHash)
		require.Equal(t, "127.0.0.1", got.IP)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := sessions.ListUserSessions(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, second.ID, list[0].ID)
		require.Equal(t, first.ID, list[1].ID)
	})

	t.Run("touch last active", func(t *testing.T) {
		later := now.Add(5 * time.Minute)
		require.NoError(t, sessions.UpdateLastActive(ctx, first.ID, later))

		got, err := sessions.GetSessionByID(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, got.LastActive.After(got.CreatedAt))

		require.ErrorIs(t, sessions.UpdateLastActive(ctx, "missing", later), store.ErrNotFound)
	})

	t.Run("scoped delete requires matching owner", func(t *testing.T) {
		require.NoError(t, sessions.DeleteUserSession(ctx, first.ID, "someone-else"))
		_, err := sessions.GetSessionByID(ctx, first.ID)
		require.NoError(t, err)

		require.NoError(t, sessions.DeleteUserSession(ctx, first.ID, userID))
		_, err = sessions.GetSessionByID(ctx, first.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete all for user", func(t *testing.T) {
		require.NoError(t, sessions.DeleteUserSessions(ctx, userID))
		list, err := sessions.ListUserSessions(ctx, userID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestAuthAttemptsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	attempts := s.AuthAttempts()

	now := time.Now().UTC()
	record := func(ip, username string, at time.Time) {
		require.NoError(t, attempts.CreateAuthAttempt(ctx, domain.AuthAttempt{
			ID:        idx.New().String(),
			IP:        ip,
			Username:  username,
			CreatedAt: at,
		}))
	}

	record("10.0.0.1", "ren", now)
	record("10.0.0.1", "ren", now)
	record("10.0.0.1", "stimpy", now)
	record("10.0.0.2", "ren", now)
	record("10.0.0.1", "ren", now.Add(-48*time.Hour)) // outside any sane window

	since := now.Add(-time.Hour)

	count, err := attempts.CountByIP(ctx, "10.0.0.1", since)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	count, err = attempts.CountByIPAndUsername(ctx, "10.0.0.1", "ren", since)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = attempts.CountByIP(ctx, "10.0.0.3", since)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, attempts.DeleteBefore(ctx, now.Add(-24*time.Hour)))
	count, err = attempts.CountByIP(ctx, "10.0.0.1", now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestAdminsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	admins := s.Admins()

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:        idx.New().String(),
		Name:      domain.Name{First: "Ren", Last: "Höek"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, admins.CreateAdmin(ctx, admin))

	t.Run("group order survives round trip", func(t *testing.T) {
		groups := []domain.GroupMembership{
			{GroupID: "sales", Name: "Sales"},
			{GroupID: "support", Name: "Support"},
			{GroupID: "root", Name: "Root"},
		}
		require.NoError(t, admins.SetAdminGroups(ctx, admin.ID, groups))

		got, err := admins.GetAdminByID(ctx, admin.ID)
		require.NoError(t, err)
		require.Equal(t, groups, got.Groups)
		require.True(t, got.IsRoot())
	})

	t.Run("permission overrides round trip", func(t *testing.T) {
		perms := domain.PermissionMap{"SPACE_MADNESS": true, "UNTAMED_WORLD": false}
		require.NoError(t, admins.SetAdminPermissions(ctx, admin.ID, perms))

		got, err := admins.GetAdminByID(ctx, admin.ID)
		require.NoError(t, err)
		require.Equal(t, perms, got.Permissions)
	})

	t.Run("user link and username sync", func(t *testing.T) {
		userID := idx.New().String()
		require.NoError(t, admins.SetAdminUserLink(ctx, admin.ID, &domain.UserLink{ID: userID, Username: "ren"}))

		byName, err := admins.GetAdminByUsername(ctx, "ren")
		require.NoError(t, err)
		require.Equal(t, admin.ID, byName.ID)

		require.NoError(t, admins.SyncAdminUserName(ctx, userID, "hoek"))
		got, err := admins.GetAdminByID(ctx, admin.ID)
		require.NoError(t, err)
		require.Equal(t, "hoek", got.User.Username)

		require.NoError(t, admins.SetAdminUserLink(ctx, admin.ID, nil))
		got, err = admins.GetAdminByID(ctx, admin.ID)
		require.NoError(t, err)
		require.Nil(t, got.User)
	})

	t.Run("delete cascades memberships", func(t *testing.T) {
		require.NoError(t, admins.DeleteAdmin(ctx, admin.ID))
		_, err := admins.GetAdminByID(ctx, admin.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		var count int
		require.NoError(t, s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM admin_group_members WHERE admin_id = ?`, admin.ID).Scan(&count))
		require.Zero(t, count)
	})
}

func TestAdminGroupsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	groups := s.AdminGroups()

	now := time.Now().UTC()
	g := domain.AdminGroup{
		ID:          "sales",
		Name:        "Sales",
		Permissions: domain.PermissionMap{"SPACE_MADNESS": true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, groups.CreateAdminGroup(ctx, g))
	require.ErrorIs(t, groups.CreateAdminGroup(ctx, g), store.ErrAlreadyExists)

	got, err := groups.GetAdminGroupByID(ctx, "sales")
	require.NoError(t, err)
	require.Equal(t, "Sales", got.Name)
	require.Equal(t, g.Permissions, got.Permissions)

	require.NoError(t, groups.SetAdminGroupPermissions(ctx, "sales",
		domain.PermissionMap{"UNTAMED_WORLD": false}))
	got, err = groups.GetAdminGroupByID(ctx, "sales")
	require.NoError(t, err)
	require.Equal(t, domain.PermissionMap{"UNTAMED_WORLD": false}, got.Permissions)

	require.NoError(t, groups.UpdateAdminGroupName(ctx, "sales", "Sales Team"))
	list, total, err := groups.ListAdminGroups(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Sales Team", list[0].Name)

	require.NoError(t, groups.DeleteAdminGroup(ctx, "sales"))
	_, err = groups.GetAdminGroupByID(ctx, "sales")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	accounts := s.Accounts()

	now := time.Now().UTC()
	acct := domain.Account{
		ID:        idx.New().String(),
		Name:      domain.Name{First: "Stimpson", Last: "J Cat"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, accounts.CreateAccount(ctx, acct))

	t.Run("fresh account has no status", func(t *testing.T) {
		got, err := accounts.GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.Nil(t, got.Status)
		require.Equal(t, "Stimpson J Cat", got.FullName())
	})

	t.Run("status history tracks current", func(t *testing.T) {
		first := domain.StatusEntry{
			ID: idx.New().String(), StatusID: "account-happy", Name: "Happy",
			AdminID: "AD1", AdminName: "Ren Höek", CreatedAt: now,
		}
		second := domain.StatusEntry{
			ID: idx.New().String(), StatusID: "account-sad", Name: "Sad",
			AdminID: "AD1", AdminName: "Ren Höek", CreatedAt: now.Add(time.Minute),
		}
		require.NoError(t, accounts.SetAccountStatus(ctx, acct.ID, first))
		require.NoError(t, accounts.SetAccountStatus(ctx, acct.ID, second))

		got, err := accounts.GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Status)
		require.Equal(t, "account-sad", got.Status.StatusID)

		history, err := accounts.ListAccountStatusHistory(ctx, acct.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, "account-happy", history[0].StatusID)
		require.Equal(t, "account-sad", history[1].StatusID)
	})

	t.Run("note log is append only and ordered", func(t *testing.T) {
		for _, data := range []string{"first note", "second note"} {
			require.NoError(t, accounts.AddAccountNote(ctx, acct.ID, domain.NoteEntry{
				ID: idx.New().String(), Data: data,
				AdminID: "AD1", AdminName: "Ren Höek", CreatedAt: now,
			}))
		}

		notes, err := accounts.ListAccountNotes(ctx, acct.ID)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		require.Equal(t, "first note", notes[0].Data)
		require.Equal(t, "second note", notes[1].Data)
	})

	t.Run("user link and username sync", func(t *testing.T) {
		userID := idx.New().String()
		require.NoError(t, accounts.SetAccountUserLink(ctx, acct.ID, &domain.UserLink{ID: userID, Username: "stimpy"}))

		byName, err := accounts.GetAccountByUsername(ctx, "stimpy")
		require.NoError(t, err)
		require.Equal(t, acct.ID, byName.ID)

		require.NoError(t, accounts.SyncAccountUserName(ctx, userID, "stimpson"))
		got, err := accounts.GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.Equal(t, "stimpson", got.User.Username)
	})

	t.Run("delete cascades notes and history", func(t *testing.T) {
		require.NoError(t, accounts.DeleteAccount(ctx, acct.ID))
		_, err := accounts.GetAccountByID(ctx, acct.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		var count int
		require.NoError(t, s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM account_notes WHERE account_id = ?`, acct.ID).Scan(&count))
		require.Zero(t, count)
	})
}

func TestStatusesRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	statuses := s.Statuses()

	now := time.Now().UTC()
	st := domain.Status{
		ID:        domain.StatusID("account", "Happy"),
		Pivot:     "account",
		Name:      "Happy",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, statuses.CreateStatus(ctx, st))
	require.ErrorIs(t, statuses.CreateStatus(ctx, st), store.ErrAlreadyExists)

	got, err := statuses.GetStatusByID(ctx, "account-happy")
	require.NoError(t, err)
	require.Equal(t, "Happy", got.Name)
	require.Equal(t, "account", got.Pivot)

	require.NoError(t, statuses.UpdateStatusName(ctx, "account-happy", "Delighted"))
	list, total, err := statuses.ListStatuses(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Delighted", list[0].Name)

	require.NoError(t, statuses.DeleteStatus(ctx, "account-happy"))
	_, err = statuses.GetStatusByID(ctx, "account-happy")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("ren")
	boom := context.Canceled // any sentinel will do

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	}))
	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
}
