package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// AdminsHandler serves staff management. Every route here sits behind the
// root group requirement.
type AdminsHandler struct {
	Admins *service.AdminService
	Links  *service.LinkService
	Store  store.Store
}

// HandleCreate handles POST /v1/admins.
func (h *AdminsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	admin, err := h.Admins.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAdminInfo(admin))
}

// HandleGet handles GET /v1/admins/{id}.
func (h *AdminsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	admin, err := h.Admins.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAdminInfo(admin))
}

// HandleList handles GET /v1/admins.
func (h *AdminsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	admins, total, err := h.Admins.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.AdminInfo, len(admins))
	for i, a := range admins {
		infos[i] = toAdminInfo(a)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListAdminsResponse{Admins: infos, Total: total})
}

// HandleUpdateName handles PUT /v1/admins/{id}.
func (h *AdminsHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Admins.UpdateName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleSetGroups handles PUT /v1/admins/{id}/groups.
func (h *AdminsHandler) HandleSetGroups(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SetGroupsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Admins.SetGroups(r.Context(), r.PathValue("id"), req.Groups); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleSetPermissions handles PUT /v1/admins/{id}/permissions.
func (h *AdminsHandler) HandleSetPermissions(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SetPermissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Admins.SetPermissions(r.Context(), r.PathValue("id"), req.Permissions); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleLinkUser handles PUT /v1/admins/{id}/user.
func (h *AdminsHandler) HandleLinkUser(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.LinkUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.Store.Users().GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.Links.LinkAdmin(r.Context(), r.PathValue("id"), user.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleUnlinkUser handles DELETE /v1/admins/{id}/user.
func (h *AdminsHandler) HandleUnlinkUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Links.UnlinkAdmin(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/admins/{id}.
func (h *AdminsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Admins.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
