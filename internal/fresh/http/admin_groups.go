package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// GroupsHandler serves admin-group management (root group only).
type GroupsHandler struct {
	Groups *service.AdminGroupService
}

// HandleCreate handles POST /v1/admin-groups.
func (h *GroupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	group, err := h.Groups.Create(r.Context(), req.Name, req.Permissions)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGroupInfo(group))
}

// HandleGet handles GET /v1/admin-groups/{id}.
func (h *GroupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	group, err := h.Groups.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroupInfo(group))
}

// HandleList handles GET /v1/admin-groups.
func (h *GroupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	groups, total, err := h.Groups.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.GroupInfo, len(groups))
	for i, g := range groups {
		infos[i] = toGroupInfo(g)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListGroupsResponse{Groups: infos, Total: total})
}

// HandleUpdateName handles PUT /v1/admin-groups/{id}.
func (h *GroupsHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Groups.UpdateName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleSetPermissions handles PUT /v1/admin-groups/{id}/permissions.
func (h *GroupsHandler) HandleSetPermissions(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SetPermissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Groups.SetPermissions(r.Context(), r.PathValue("id"), req.Permissions); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleDelete handles DELETE /v1/admin-groups/{id}.
func (h *GroupsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Groups.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
