package service

import (
	"context"
	"testing"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/stretchr/testify/require"
)

func TestAdminSetGroups(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	admins := &AdminService{Store: st}
	links := &LinkService{Store: st}
	sessions := &SessionService{Store: st}

	seedGroup(t, st, "sales", "Sales", nil)
	seedGroup(t, st, "support", "Support", nil)

	admin, err := admins.Create(ctx, "Ren Höek")
	require.NoError(t, err)
	user := seedUser(t, st, "ren", "bighouseblues")
	require.NoError(t, links.LinkAdmin(ctx, admin.ID, user.ID))

	sess, err := sessions.Create(ctx, user.ID, "127.0.0.1", "go-test")
	require.NoError(t, err)

	require.NoError(t, admins.SetGroups(ctx, admin.ID, []string{"support", "sales"}))

	got, err := admins.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.GroupMembership{
		{GroupID: "support", Name: "Support"},
		{GroupID: "sales", Name: "Sales"},
	}, got.Groups, "assignment order is preserved")

	t.Run("membership change revokes sessions", func(t *testing.T) {
		_, err := sessions.FindByCredentials(ctx, sess.ID, sess.Key)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown group refused", func(t *testing.T) {
		require.ErrorIs(t, admins.SetGroups(ctx, admin.ID, []string{"engineering"}),
			ErrUnknownGroup)
	})
}

func TestAdminUpdateNameSyncsUserLink(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	admins := &AdminService{Store: st}
	links := &LinkService{Store: st}

	admin, err := admins.Create(ctx, "Ren Höek")
	require.NoError(t, err)
	user := seedUser(t, st, "ren", "bighouseblues")
	require.NoError(t, links.LinkAdmin(ctx, admin.ID, user.ID))

	require.NoError(t, admins.UpdateName(ctx, admin.ID, "Mr Horse"))

	gotUser, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Mr Horse", gotUser.Roles.Admin.Name)
}

func TestAdminDeleteClearsUserSlot(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	admins := &AdminService{Store: st}
	links := &LinkService{Store: st}

	admin, err := admins.Create(ctx, "Ren Höek")
	require.NoError(t, err)
	user := seedUser(t, st, "ren", "bighouseblues")
	require.NoError(t, links.LinkAdmin(ctx, admin.ID, user.ID))

	require.NoError(t, admins.Delete(ctx, admin.ID))

	gotUser, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, gotUser.Roles.Admin)
}

func TestAdminGroupServiceReservesRoot(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	groups := &AdminGroupService{Store: st}

	_, err := groups.Create(ctx, "Root", nil)
	require.ErrorIs(t, err, ErrReservedGroup)

	require.ErrorIs(t, groups.UpdateName(ctx, domain.RootGroupID, "Gods"), ErrReservedGroup)
	require.ErrorIs(t, groups.SetPermissions(ctx, domain.RootGroupID, nil), ErrReservedGroup)
	require.ErrorIs(t, groups.Delete(ctx, domain.RootGroupID), ErrReservedGroup)
}

func TestAdminGroupRenameSyncsMemberships(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	groups := &AdminGroupService{Store: st}

	group, err := groups.Create(ctx, "Sales", domain.PermissionMap{"SPACE_MADNESS": true})
	require.NoError(t, err)
	require.Equal(t, "sales", group.ID)

	admin := seedAdmin(t, st, "Ren Höek",
		domain.GroupMembership{GroupID: "sales", Name: "Sales"})

	require.NoError(t, groups.UpdateName(ctx, "sales", "Sales Team"))

	got, err := st.Admins().GetAdminByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "Sales Team", got.Groups[0].Name)
}
