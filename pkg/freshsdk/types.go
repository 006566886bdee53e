package freshsdk

import "time"

// ErrorResponse is the standard error body returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ---------------------------------------------------------------------------
// Credential flows
// ---------------------------------------------------------------------------

// SignupRequest registers a new user with its customer account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates by username (or e-mail address) and password.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionCredentials is the raw session pair embedded in an auth response.
// Key is plaintext here and nowhere else; it cannot be fetched again.
type SessionCredentials struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// AuthResponse is returned by login and signup: a signed credential bundle
// plus the session pair and a snapshot of the user.
type AuthResponse struct {
	Token   string             `json:"token"`
	Session SessionCredentials `json:"session"`
	User    UserInfo           `json:"user"`
}

// VerifyRequest redeems a mailed e-mail-verification key.
type VerifyRequest struct {
	Email string `json:"email"`
	Key   string `json:"key"`
}

// ResendVerifyRequest asks for a fresh verification mail.
type ResendVerifyRequest struct {
	Email string `json:"email"`
}

// ForgotRequest starts the password-reset flow.
type ForgotRequest struct {
	Email string `json:"email"`
}

// ResetRequest redeems a mailed reset key for a new password.
type ResetRequest struct {
	Email    string `json:"email"`
	Key      string `json:"key"`
	Password string `json:"password"`
}

// ContactRequest forwards a message from the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageResponse is the generic success body for operations with no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// ---------------------------------------------------------------------------
// Users and sessions
// ---------------------------------------------------------------------------

// RoleLinkInfo is one side of a user-to-role linkage as seen by clients.
type RoleLinkInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RolesInfo lists the role links a user holds.
type RolesInfo struct {
	Admin   *RoleLinkInfo `json:"admin,omitempty"`
	Account *RoleLinkInfo `json:"account,omitempty"`
}

// UserInfo is the client-facing user record. Verified reports whether the
// e-mail verification grant has been redeemed.
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	IsActive  bool      `json:"is_active"`
	Roles     RolesInfo `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest changes the caller's username and e-mail address.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// SetActiveRequest toggles a user's active flag.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SessionInfo describes one live session. The key is never included.
type SessionInfo struct {
	ID         string    `json:"id"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
	Total int        `json:"total"`
}

// ---------------------------------------------------------------------------
// Admins and groups
// ---------------------------------------------------------------------------

// UserLinkInfo is the role-side half of a user linkage.
type UserLinkInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GroupMembershipInfo is one group an admin belongs to, in resolution order.
type GroupMembershipInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdminInfo is the client-facing staff record.
type AdminInfo struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	User        *UserLinkInfo         `json:"user,omitempty"`
	Groups      []GroupMembershipInfo `json:"groups"`
	Permissions map[string]bool       `json:"permissions,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type ListAdminsResponse struct {
	Admins []AdminInfo `json:"admins"`
	Total  int         `json:"total"`
}

// CreateNameRequest carries a display name for create and rename operations.
type CreateNameRequest struct {
	Name string `json:"name"`
}

// SetGroupsRequest replaces an admin's group memberships, in order.
type SetGroupsRequest struct {
	Groups []string `json:"groups"`
}

// SetPermissionsRequest replaces a permission map. A true value grants, a
// false value explicitly denies.
type SetPermissionsRequest struct {
	Permissions map[string]bool `json:"permissions"`
}

// LinkUserRequest links a role record to the user with the given username.
type LinkUserRequest struct {
	Username string `json:"username"`
}

// GroupInfo is a named permission bundle.
type GroupInfo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListGroupsResponse struct {
	Groups []GroupInfo `json:"groups"`
	Total  int         `json:"total"`
}

// CreateGroupRequest registers a group with its default permissions.
type CreateGroupRequest struct {
	Name        string          `json:"name"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// ---------------------------------------------------------------------------
// Accounts and statuses
// ---------------------------------------------------------------------------

// StatusEntryInfo is one status assignment, stamped with the acting admin.
type StatusEntryInfo struct {
	ID        string    `json:"id"`
	StatusID  string    `json:"status_id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	AdminName string    `json:"admin_name"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountInfo is the client-facing customer record.
type AccountInfo struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	User      *UserLinkInfo    `json:"user,omitempty"`
	Status    *StatusEntryInfo `json:"status,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type ListAccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
	Total    int           `json:"total"`
}

// NoteInfo is one note on an account's append-only log.
type NoteInfo struct {
	ID        string    `json:"id"`
	Data      string    `json:"data"`
	AdminID   string    `json:"admin_id"`
	AdminName string    `json:"admin_name"`
	CreatedAt time.Time `json:"created_at"`
}

type ListNotesResponse struct {
	Notes []NoteInfo `json:"notes"`
}

// AddNoteRequest appends a note to an account.
type AddNoteRequest struct {
	Data string `json:"data"`
}

// SetStatusRequest assigns a catalog status to an account.
type SetStatusRequest struct {
	Status string `json:"status"`
}

type StatusHistoryResponse struct {
	History []StatusEntryInfo `json:"history"`
}

// StatusInfo is one assignable status from the catalog.
type StatusInfo struct {
	ID        string    `json:"id"`
	Pivot     string    `json:"pivot"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListStatusesResponse struct {
	Statuses []StatusInfo `json:"statuses"`
	Total    int          `json:"total"`
}

// CreateStatusRequest registers a status; its id becomes "{pivot}-{name}"
// slugged.
type CreateStatusRequest struct {
	Pivot string `json:"pivot"`
	Name  string `json:"name"`
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
