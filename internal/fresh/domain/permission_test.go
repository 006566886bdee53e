package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePermission(t *testing.T) {
	t.Run("default deny when no source defines the key", func(t *testing.T) {
		require.False(t, ResolvePermission("SPACE_MADNESS"))
		require.False(t, ResolvePermission("SPACE_MADNESS", PermissionMap{}, PermissionMap{}))
	})

	t.Run("first defined answer wins", func(t *testing.T) {
		override := PermissionMap{"SPACE_MADNESS": false}
		group := PermissionMap{"SPACE_MADNESS": true}

		require.False(t, ResolvePermission("SPACE_MADNESS", override, group))
		require.True(t, ResolvePermission("SPACE_MADNESS", group, override))
	})

	t.Run("abstaining sources are skipped", func(t *testing.T) {
		sales := PermissionMap{"UNTAMED_WORLD": false, "WORLD_UNTAMED": true}
		support := PermissionMap{"SPACE_MADNESS": true, "MADNESS_SPACE": false}

		require.True(t, ResolvePermission("SPACE_MADNESS", PermissionMap{}, sales, support))
		require.False(t, ResolvePermission("UNTAMED_WORLD", PermissionMap{}, sales, support))
	})

	t.Run("nil sources are tolerated", func(t *testing.T) {
		require.True(t, ResolvePermission("P", nil, PermissionMap{"P": true}))
	})
}

func TestAdminMembership(t *testing.T) {
	admin := &Admin{
		Groups: []GroupMembership{
			{GroupID: "sales", Name: "Sales"},
			{GroupID: "support", Name: "Support"},
		},
	}

	require.True(t, admin.IsMemberOf("sales"))
	require.True(t, admin.IsMemberOf("support"))
	require.False(t, admin.IsMemberOf("engineering"))
	require.False(t, admin.IsRoot())

	admin.Groups = append(admin.Groups, GroupMembership{GroupID: RootGroupID, Name: "Root"})
	require.True(t, admin.IsRoot())
}

func TestParseName(t *testing.T) {
	justFirst := ParseName("Steve")
	require.Equal(t, "Steve", justFirst.First)
	require.Empty(t, justFirst.Last)
	require.Equal(t, "Steve", justFirst.Full())

	firstAndLast := ParseName("Ren Höek")
	require.Equal(t, "Ren", firstAndLast.First)
	require.Equal(t, "Höek", firstAndLast.Last)
	require.Equal(t, "Ren Höek", firstAndLast.Full())

	middle := ParseName("Stimpson J Cat")
	require.Equal(t, "Stimpson", middle.First)
	require.Equal(t, "J Cat", middle.Last)
}

func TestRoleLinks(t *testing.T) {
	u := &User{}
	require.False(t, u.CanPlayRole(RoleAdmin))
	require.Empty(t, u.Roles.Kinds())

	u.Roles.Account = &RoleLink{Kind: RoleAccount, ID: "A1", Name: "Ren Höek"}
	require.True(t, u.CanPlayRole(RoleAccount))
	require.False(t, u.CanPlayRole(RoleAdmin))
	require.Equal(t, []string{"account"}, u.Roles.Kinds())

	u.Roles.Admin = &RoleLink{Kind: RoleAdmin, ID: "D1", Name: "Ren Höek"}
	require.Equal(t, []string{"admin", "account"}, u.Roles.Kinds())
}

func TestStatusID(t *testing.T) {
	require.Equal(t, "account-happy", StatusID("Account", "Happy"))
	require.Equal(t, "account-on-hold", StatusID("account", "On Hold"))
}
