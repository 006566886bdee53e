package domain

// PermissionSource is one layer of a permission decision: it either defines
// an answer for a key or abstains.
type PermissionSource interface {
	// Defines returns the configured answer for key and whether the source
	// defines the key at all.
	Defines(key string) (allowed, ok bool)
}

// PermissionMap is a set of fine-grained boolean permission entries. An
// absent key is an abstention, not a denial.
type PermissionMap map[string]bool

func (m PermissionMap) Defines(key string) (allowed, ok bool) {
	allowed, ok = m[key]
	return allowed, ok
}

// ResolvePermission walks the given sources in order and returns the first
// defined answer. A key no source defines is denied. Callers build the
// source list with the precedence they want; for admins that is the
// admin's own override map followed by each group in membership order.
func ResolvePermission(key string, sources ...PermissionSource) bool {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if allowed, ok := src.Defines(key); ok {
			return allowed
		}
	}
	return false
}
