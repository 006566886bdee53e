package domain

import "time"

// RoleKind discriminates the closed set of role profiles a user can play.
type RoleKind string

const (
	RoleAdmin   RoleKind = "admin"
	RoleAccount RoleKind = "account"
)

// RoleLink is one side of a user-to-role linkage: the role's id plus a
// cached display name. The cache is kept in sync by the link service and by
// identity renames.
type RoleLink struct {
	Kind RoleKind
	ID   string
	Name string
}

// RoleLinks holds at most one link per role kind.
type RoleLinks struct {
	Admin   *RoleLink
	Account *RoleLink
}

// Get returns the link for the given kind, or nil.
func (rl RoleLinks) Get(kind RoleKind) *RoleLink {
	switch kind {
	case RoleAdmin:
		return rl.Admin
	case RoleAccount:
		return rl.Account
	}
	return nil
}

// Kinds lists the role kinds currently linked, admin first. Used as the
// scope list in issued credential bundles.
func (rl RoleLinks) Kinds() []string {
	var kinds []string
	if rl.Admin != nil {
		kinds = append(kinds, string(RoleAdmin))
	}
	if rl.Account != nil {
		kinds = append(kinds, string(RoleAccount))
	}
	return kinds
}

// TokenGrant is a pending one-time credential (e-mail verification or
// password reset): the hash of a key that was mailed out, plus its expiry.
type TokenGrant struct {
	TokenHash string
	Expires   time.Time
}

// Expired reports whether the grant is no longer redeemable at t.
func (g *TokenGrant) Expired(t time.Time) bool {
	return g == nil || t.After(g.Expires)
}

type User struct {
	ID            string
	Username      string // unique, lowercase
	Email         string // unique, lowercase
	PasswordHash  string // argon2 encoded
	IsActive      bool
	Roles         RoleLinks
	Verify        *TokenGrant // pending e-mail verification (nullable)
	ResetPassword *TokenGrant // pending password reset (nullable)
	CreatedAt     time.Time
	UpdatedAt     time.Time

	hydrated *HydratedRoles
}

// CanPlayRole reports whether the user is linked to a role of the given kind.
func (u *User) CanPlayRole(kind RoleKind) bool {
	return u.Roles.Get(kind) != nil
}

// HydratedRoles carries the full role records referenced by a user's links,
// fetched once per request by the role resolver.
type HydratedRoles struct {
	Admin   *Admin
	Account *Account
}

// CacheHydratedRoles memoizes resolved roles on the user for the remainder
// of the request.
func (u *User) CacheHydratedRoles(r *HydratedRoles) { u.hydrated = r }

// CachedHydratedRoles returns the memoized roles, or nil if the user has not
// been hydrated yet.
func (u *User) CachedHydratedRoles() *HydratedRoles { return u.hydrated }
