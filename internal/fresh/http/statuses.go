package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// StatusesHandler manages the status catalogue (root group only).
type StatusesHandler struct {
	Statuses *service.StatusService
}

// HandleCreate handles POST /v1/statuses.
func (h *StatusesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Pivot == "" || req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	status, err := h.Statuses.Create(r.Context(), req.Pivot, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toStatusInfo(status))
}

// HandleList handles GET /v1/statuses.
func (h *StatusesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	statuses, total, err := h.Statuses.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.StatusInfo, len(statuses))
	for i, s := range statuses {
		infos[i] = toStatusInfo(s)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListStatusesResponse{Statuses: infos, Total: total})
}

// HandleGet handles GET /v1/statuses/{id}.
func (h *StatusesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	status, err := h.Statuses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStatusInfo(status))
}

// HandleUpdateName handles PUT /v1/statuses/{id}.
func (h *StatusesHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Statuses.UpdateName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleDelete handles DELETE /v1/statuses/{id}.
func (h *StatusesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Statuses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
