package domain

import "time"

// RootGroupID is the reserved group that authorizes every action for its
// members regardless of its permission entries. It cannot be deleted.
const RootGroupID = "root"

// AdminGroup is a named bundle of default permissions. Group ids are
// human-readable slugs ("sales", "support") rather than generated ids.
type AdminGroup struct {
	ID          string
	Name        string
	Permissions PermissionMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupID builds the slug id for a group name.
func GroupID(name string) string {
	return slugify(name)
}
