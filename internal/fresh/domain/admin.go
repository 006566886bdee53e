package domain

import "time"

// UserLink is the role-side half of a user linkage: the user's id plus a
// cached username.
type UserLink struct {
	ID       string
	Username string
}

// GroupMembership records that an admin belongs to a group, with the group
// name cached for display. Order matters: permission resolution consults
// groups in membership insertion order.
type GroupMembership struct {
	GroupID string
	Name    string
}

// Admin is the staff role record. Permissions holds per-admin overrides
// that take precedence over anything the admin's groups grant.
type Admin struct {
	ID          string
	Name        Name
	User        *UserLink
	Groups      []GroupMembership
	Permissions PermissionMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName returns the admin's display name.
func (a *Admin) FullName() string { return a.Name.Full() }

// IsMemberOf reports whether the admin belongs to the given group.
func (a *Admin) IsMemberOf(groupID string) bool {
	for _, g := range a.Groups {
		if g.GroupID == groupID {
			return true
		}
	}
	return false
}

// IsRoot reports membership in the reserved all-access group.
func (a *Admin) IsRoot() bool { return a.IsMemberOf(RootGroupID) }
