package fresh_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootManagesAdminsAndGroups(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(40))
	ctx := context.Background()

	root := rootSession(t, c)

	// Create a staff record and a support group.
	admin, err := root.CreateAdmin(ctx, "Sam Support")
	require.NoError(t, err)
	require.Equal(t, "Sam Support", admin.Name)
	require.Nil(t, admin.User)

	group, err := root.CreateGroup(ctx, "Support", map[string]bool{"account.manage": true})
	require.NoError(t, err)
	require.True(t, group.Permissions["account.manage"])

	require.NoError(t, root.SetAdminGroups(ctx, admin.ID, []string{group.ID}))

	// Link the staff record to a real login.
	signupUser(t, c, "Sam Support", "sam", "Secret123!")
	require.NoError(t, root.LinkAdminUser(ctx, admin.ID, "sam"))

	linked, err := root.GetAdmin(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.User)
	require.Equal(t, "sam", linked.User.Username)
	require.Len(t, linked.Groups, 1)
	require.Equal(t, group.ID, linked.Groups[0].ID)

	// Unknown group ids are refused.
	requireAPIError(t, root.SetAdminGroups(ctx, admin.ID, []string{"no-such-group"}), "unknown_group")

	// The root group itself cannot be managed.
	requireAPIError(t, root.DeleteGroup(ctx, "root"), "reserved_group")
	requireAPIError(t, root.UpdateGroupName(ctx, "root", "Renamed"), "reserved_group")
	_, err = root.CreateGroup(ctx, "Root", nil)
	requireAPIError(t, err, "reserved_group")
}

func TestAdminLinkConflicts(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(41))
	ctx := context.Background()

	root := rootSession(t, c)

	first, err := root.CreateAdmin(ctx, "First Admin")
	require.NoError(t, err)
	second, err := root.CreateAdmin(ctx, "Second Admin")
	require.NoError(t, err)

	signupUser(t, c, "Linked User", "linked", "Secret123!")

	require.NoError(t, root.LinkAdminUser(ctx, first.ID, "linked"))

	// Re-linking the same pair is a no-op.
	require.NoError(t, root.LinkAdminUser(ctx, first.ID, "linked"))

	// The user already plays the admin role elsewhere.
	requireAPIError(t, root.LinkAdminUser(ctx, second.ID, "linked"), "link_conflict")

	// Unlink frees both sides; unlinking again stays quiet.
	require.NoError(t, root.UnlinkAdminUser(ctx, first.ID))
	require.NoError(t, root.UnlinkAdminUser(ctx, first.ID))
	require.NoError(t, root.LinkAdminUser(ctx, second.ID, "linked"))

	// Unknown usernames surface as not found.
	requireAPIError(t, root.LinkAdminUser(ctx, first.ID, "nobody"), "not_found")
}

func TestStaffSurfaceRequiresRoot(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(42))
	ctx := context.Background()

	// An ordinary user holds the account scope only.
	sess := signupUser(t, c, "Plain User", "plain", "Secret123!")

	_, err := sess.ListUsers(ctx, 20, 0)
	requireAPIError(t, err, "insufficient_scope")

	_, err = sess.ListAdmins(ctx, 20, 0)
	requireAPIError(t, err, "insufficient_scope")

	// A linked admin outside the root group gets past the scope check but
	// not the root requirement.
	root := rootSession(t, c)
	admin, err := root.CreateAdmin(ctx, "Junior Admin")
	require.NoError(t, err)

	signupUser(t, c, "Junior Admin", "junior", "Secret123!")
	require.NoError(t, root.LinkAdminUser(ctx, admin.ID, "junior"))

	// Scopes are fixed at login, so the link must precede it.
	junior, err := c.Login(ctx, "junior", "Secret123!")
	require.NoError(t, err)

	_, err = junior.ListUsers(ctx, 20, 0)
	requireAPIError(t, err, "insufficient_role")

	users, err := root.ListUsers(ctx, 20, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, users.Total, 3)
}

func TestRootDeactivatesAndDeletesUsers(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(43))
	ctx := context.Background()

	root := rootSession(t, c)
	victim := signupUser(t, c, "Doomed User", "doomed", "Secret123!")

	// Deactivation revokes the victim's sessions immediately.
	require.NoError(t, root.SetUserActive(ctx, victim.User.ID, false))

	_, err := victim.Me(ctx)
	requireAPIError(t, err, "invalid_token")

	_, err = c.Login(ctx, "doomed", "Secret123!")
	requireAPIError(t, err, "account_disabled")

	require.NoError(t, root.SetUserActive(ctx, victim.User.ID, true))
	_, err = c.Login(ctx, "doomed", "Secret123!")
	require.NoError(t, err)

	require.NoError(t, root.DeleteUser(ctx, victim.User.ID))
	_, err = c.Login(ctx, "doomed", "Secret123!")
	requireAPIError(t, err, "invalid_credentials")

	// The root user is shielded from its own management surface.
	me, err := root.Me(ctx)
	require.NoError(t, err)
	requireAPIError(t, root.SetUserActive(ctx, me.ID, false), "root_protected")
	requireAPIError(t, root.DeleteUser(ctx, me.ID), "root_protected")
}
