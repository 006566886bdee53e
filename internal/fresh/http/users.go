package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// UsersHandler serves user self-service plus root-only user management.
type UsersHandler struct {
	Users *service.UserService
}

// HandleMe handles GET /v1/users/my.
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(*creds.User))
}

// HandleUpdateMe handles PUT /v1/users/my.
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	if creds.User.Username == service.RootUsername {
		freshsdk.ErrRootProtected.WriteError(w)
		return
	}

	var req freshsdk.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Users.UpdateIdentity(r.Context(), creds.User.ID, req.Username, req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.Users.GetByID(r.Context(), creds.User.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(user))
}

// HandleUpdatePassword handles PUT /v1/users/my/password.
func (h *UsersHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	if creds.User.Username == service.RootUsername {
		freshsdk.ErrRootProtected.WriteError(w)
		return
	}

	var req freshsdk.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Users.UpdatePassword(r.Context(), creds.User.ID, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleList handles GET /v1/users (root group only).
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	users, total, err := h.Users.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.UserInfo, len(users))
	for i, u := range users {
		infos[i] = toUserInfo(u)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListUsersResponse{Users: infos, Total: total})
}

// HandleSetActive handles PUT /v1/users/{id}/active (root group only).
func (h *UsersHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := h.Users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if target.Username == service.RootUsername {
		freshsdk.ErrRootProtected.WriteError(w)
		return
	}

	if err := h.Users.SetActive(r.Context(), target.ID, req.IsActive); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleDelete handles DELETE /v1/users/{id} (root group only).
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	target, err := h.Users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if target.Username == service.RootUsername {
		freshsdk.ErrRootProtected.WriteError(w)
		return
	}

	if err := h.Users.Delete(r.Context(), target.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
