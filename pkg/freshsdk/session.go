package freshsdk

import (
	"context"
	"fmt"
	"net/http"
)

// Session is an authenticated connection to a Fresh server, created by
// Client.Login or Client.Signup. It carries the signed credential bundle and
// presents it as a bearer token on every call.
type Session struct {
	client    *Client
	token     string
	sessionID string

	// User is the snapshot returned at login time.
	User UserInfo
}

// Token returns the signed credential bundle for storage or hand-off.
func (s *Session) Token() string { return s.token }

// SessionID returns the server-side session id, when known.
func (s *Session) SessionID() string { return s.sessionID }

func (s *Session) do(ctx context.Context, method, path string, body, target any, expected int) error {
	return s.client.doJSON(ctx, method, path, s.token, body, target, expected)
}

// Logout revokes the session behind this token. The token is useless
// afterwards.
func (s *Session) Logout(ctx context.Context) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodDelete, "/v1/logout", nil, &resp, http.StatusOK)
}

// Me fetches the caller's fresh user record.
func (s *Session) Me(ctx context.Context) (UserInfo, error) {
	var resp UserInfo
	err := s.do(ctx, http.MethodGet, "/v1/users/my", nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateProfile changes the caller's username and e-mail address.
func (s *Session) UpdateProfile(ctx context.Context, username, email string) (UserInfo, error) {
	var resp UserInfo
	req := UpdateUserRequest{Username: username, Email: email}
	err := s.do(ctx, http.MethodPut, "/v1/users/my", req, &resp, http.StatusOK)
	return resp, err
}

// UpdatePassword changes the caller's password. Existing sessions, including
// this one, stay valid.
func (s *Session) UpdatePassword(ctx context.Context, password string) error {
	var resp MessageResponse
	return s.do(ctx, http.MethodPut, "/v1/users/my/password",
		UpdatePasswordRequest{Password: password}, &resp, http.StatusOK)
}

// Sessions lists the caller's live sessions, newest first.
func (s *Session) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var resp ListSessionsResponse
	err := s.do(ctx, http.MethodGet, "/v1/sessions/my", nil, &resp, http.StatusOK)
	return resp.Sessions, err
}

// RevokeSession revokes one of the caller's other sessions. Revoking the
// current session is refused; use Logout.
func (s *Session) RevokeSession(ctx context.Context, sessionID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/sessions/my/"+sessionID, nil, nil, http.StatusNoContent)
}

// MyAccount fetches the customer account linked to the caller.
func (s *Session) MyAccount(ctx context.Context) (AccountInfo, error) {
	var resp AccountInfo
	err := s.do(ctx, http.MethodGet, "/v1/accounts/my", nil, &resp, http.StatusOK)
	return resp, err
}

// UpdateMyAccount renames the caller's customer account.
func (s *Session) UpdateMyAccount(ctx context.Context, name string) (AccountInfo, error) {
	var resp AccountInfo
	err := s.do(ctx, http.MethodPut, "/v1/accounts/my", CreateNameRequest{Name: name}, &resp, http.StatusOK)
	return resp, err
}

func pagePath(path string, limit, offset int) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d", path, limit, offset)
}
