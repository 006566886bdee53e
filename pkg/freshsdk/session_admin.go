package freshsdk

import (
	"context"
	"net/http"
)

// Staff operations. All of these require the caller's user to be linked to
// an admin; most require root group membership on top.

// ListUsers pages through all user records (root group only).
func (s *Session) ListUsers(ctx context.Context, limit, offset int) (ListUsersResponse, error) {
	var resp ListUsersResponse
	err := s.do(ctx, http.MethodGet, pagePath("/v1/users", limit, offset), nil, &resp, http.StatusOK)
	return resp, err
}

// SetUserActive toggles a user's active flag (root group only). Deactivating
// revokes the user's sessions.
func (s *Session) SetUserActive(ctx context.Context, userID string, active bool) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/users/"+userID+"/active",
		SetActiveRequest{IsActive: active}, &resp, http.StatusOK)
}

// DeleteUser removes a user record (root group only). Linked role records
// survive, unlinked.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/users/"+userID, nil, nil, http.StatusNoContent)
}

// CreateAdmin registers a new staff record (root group only).
func (s *Session) CreateAdmin(ctx context.Context, name string) (AdminInfo, error) {
	var resp AdminInfo
	err := s.do(ctx, http.MethodPost, "/v1/admins", CreateNameRequest{Name: name}, &resp, http.StatusCreated)
	return resp, err
}

// GetAdmin fetches one staff record (root group only).
func (s *Session) GetAdmin(ctx context.Context, adminID string) (AdminInfo, error) {
	var resp AdminInfo
	err := s.do(ctx, http.MethodGet, "/v1/admins/"+adminID, nil, &resp, http.StatusOK)
	return resp, err
}

// ListAdmins pages through staff records (root group only).
func (s *Session) ListAdmins(ctx context.Context, limit, offset int) (ListAdminsResponse, error) {
	var resp ListAdminsResponse
	err := s.do(ctx, http.MethodGet, pagePath("/v1/admins", limit, offset), nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateAdminName renames a staff record (root group only).
func (s *Session) UpdateAdminName(ctx context.Context, adminID, name string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admins/"+adminID, CreateNameRequest{Name: name}, &resp, http.StatusOK)
}

// SetAdminGroups replaces an admin's group memberships, in resolution order
// (root group only). The linked user's sessions are revoked.
func (s *Session) SetAdminGroups(ctx context.Context, adminID string, groups []string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admins/"+adminID+"/groups",
		SetGroupsRequest{Groups: groups}, &resp, http.StatusOK)
}

// SetAdminPermissions replaces an admin's permission overrides (root group
// only). The linked user's sessions are revoked.
func (s *Session) SetAdminPermissions(ctx context.Context, adminID string, perms map[string]bool) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admins/"+adminID+"/permissions",
		SetPermissionsRequest{Permissions: perms}, &resp, http.StatusOK)
}

// LinkAdminUser links an admin to the user with the given username (root
// group only).
func (s *Session) LinkAdminUser(ctx context.Context, adminID, username string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admins/"+adminID+"/user",
		LinkUserRequest{Username: username}, &resp, http.StatusOK)
}

// UnlinkAdminUser clears an admin's user link (root group only). Idempotent.
func (s *Session) UnlinkAdminUser(ctx context.Context, adminID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/admins/"+adminID+"/user", nil, nil, http.StatusNoContent)
}

// DeleteAdmin removes a staff record (root group only).
func (s *Session) DeleteAdmin(ctx context.Context, adminID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/admins/"+adminID, nil, nil, http.StatusNoContent)
}

// CreateGroup registers an admin group (root group only).
func (s *Session) CreateGroup(ctx context.Context, name string, perms map[string]bool) (GroupInfo, error) {
	var resp GroupInfo
	req := CreateGroupRequest{Name: name, Permissions: perms}
	err := s.do(ctx, http.MethodPost, "/v1/admin-groups", req, &resp, http.StatusCreated)
	return resp, err
}

// ListGroups pages through admin groups (root group only).
func (s *Session) ListGroups(ctx context.Context, limit, offset int) (ListGroupsResponse, error) {
	var resp ListGroupsResponse
	err := s.do(ctx, http.MethodGet, pagePath("/v1/admin-groups", limit, offset), nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateGroupName renames a group (root group only; "root" is reserved).
func (s *Session) UpdateGroupName(ctx context.Context, groupID, name string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admin-groups/"+groupID,
		CreateNameRequest{Name: name}, &resp, http.StatusOK)
}

// SetGroupPermissions replaces a group's default permissions (root group
// only; "root" is reserved).
func (s *Session) SetGroupPermissions(ctx context.Context, groupID string, perms map[string]bool) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/admin-groups/"+groupID+"/permissions",
		SetPermissionsRequest{Permissions: perms}, &resp, http.StatusOK)
}

// DeleteGroup removes a group (root group only; "root" is reserved).
func (s *Session) DeleteGroup(ctx context.Context, groupID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/admin-groups/"+groupID, nil, nil, http.StatusNoContent)
}

// CreateAccount registers a standalone customer record (admin).
func (s *Session) CreateAccount(ctx context.Context, name string) (AccountInfo, error) {
	var resp AccountInfo
	err := s.do(ctx, http.MethodPost, "/v1/accounts", CreateNameRequest{Name: name}, &resp, http.StatusCreated)
	return resp, err
}

// GetAccount fetches one customer record (admin).
func (s *Session) GetAccount(ctx context.Context, accountID string) (AccountInfo, error) {
	var resp AccountInfo
	err := s.do(ctx, http.MethodGet, "/v1/accounts/"+accountID, nil, &resp, http.StatusOK)
	return resp, err
}

// ListAccounts pages through customer records (admin).
func (s *Session) ListAccounts(ctx context.Context, limit, offset int) (ListAccountsResponse, error) {
	var resp ListAccountsResponse
	err := s.do(ctx, http.MethodGet, pagePath("/v1/accounts", limit, offset), nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateAccountName renames a customer record (admin).
func (s *Session) UpdateAccountName(ctx context.Context, accountID, name string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/accounts/"+accountID,
		CreateNameRequest{Name: name}, &resp, http.StatusOK)
}

// AddAccountNote appends a note to an account's log, stamped with the
// caller's admin (admin).
func (s *Session) AddAccountNote(ctx context.Context, accountID, data string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPost, "/v1/accounts/"+accountID+"/notes",
		AddNoteRequest{Data: data}, &resp, http.StatusCreated)
}

// ListAccountNotes returns an account's note log, oldest first (admin).
func (s *Session) ListAccountNotes(ctx context.Context, accountID string) ([]NoteInfo, error) {
	var resp ListNotesResponse
	err := s.do(ctx, http.MethodGet, "/v1/accounts/"+accountID+"/notes", nil, &resp, http.StatusOK)
	return resp.Notes, err
}

// SetAccountStatus assigns a catalog status to an account (admin).
func (s *Session) SetAccountStatus(ctx context.Context, accountID, statusID string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/accounts/"+accountID+"/status",
		SetStatusRequest{Status: statusID}, &resp, http.StatusOK)
}

// AccountStatusHistory returns an account's status history, oldest first
// (admin).
func (s *Session) AccountStatusHistory(ctx context.Context, accountID string) ([]StatusEntryInfo, error) {
	var resp StatusHistoryResponse
	err := s.do(ctx, http.MethodGet, "/v1/accounts/"+accountID+"/status/history", nil, &resp, http.StatusOK)
	return resp.History, err
}

// LinkAccountUser links an account to the user with the given username
// (admin).
func (s *Session) LinkAccountUser(ctx context.Context, accountID, username string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/accounts/"+accountID+"/user",
		LinkUserRequest{Username: username}, &resp, http.StatusOK)
}

// UnlinkAccountUser clears an account's user link (admin). Idempotent.
func (s *Session) UnlinkAccountUser(ctx context.Context, accountID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/accounts/"+accountID+"/user", nil, nil, http.StatusNoContent)
}

// DeleteAccount removes a customer record (admin).
func (s *Session) DeleteAccount(ctx context.Context, accountID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/accounts/"+accountID, nil, nil, http.StatusNoContent)
}

// CreateStatus registers a catalog status (root group only).
func (s *Session) CreateStatus(ctx context.Context, pivot, name string) (StatusInfo, error) {
	var resp StatusInfo
	req := CreateStatusRequest{Pivot: pivot, Name: name}
	err := s.do(ctx, http.MethodPost, "/v1/statuses", req, &resp, http.StatusCreated)
	return resp, err
}

// ListStatuses pages through the status catalog (root group only).
func (s *Session) ListStatuses(ctx context.Context, limit, offset int) (ListStatusesResponse, error) {
	var resp ListStatusesResponse
	err := s.do(ctx, http.MethodGet, pagePath("/v1/statuses", limit, offset), nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateStatusName renames a catalog status (root group only). History
// entries keep the name they were stamped with.
func (s *Session) UpdateStatusName(ctx context.Context, statusID, name string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/statuses/"+statusID,
		CreateNameRequest{Name: name}, &resp, http.StatusOK)
}

// DeleteStatus removes a catalog status (root group only).
func (s *Session) DeleteStatus(ctx context.Context, statusID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/statuses/"+statusID, nil, nil, http.StatusNoContent)
}
