package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// SessionsHandler lets users inspect and prune their own sessions.
type SessionsHandler struct {
	Sessions *service.SessionService
}

// HandleList handles GET /v1/sessions/my.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())

	sessions, err := h.Sessions.ListForUser(r.Context(), creds.Session.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.SessionInfo, len(sessions))
	for i, s := range sessions {
		infos[i] = toSessionInfo(s)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListSessionsResponse{Sessions: infos})
}

// HandleRevoke handles DELETE /v1/sessions/my/{id}. The current session is
// off limits; that is what logout is for.
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	id := r.PathValue("id")

	if id == creds.Session.ID {
		freshsdk.NewAPIError(http.StatusBadRequest, "current_session",
			"use logout to end the current session").WriteError(w)
		return
	}

	if err := h.Sessions.DeleteOwnedByID(r.Context(), id, creds.Session.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
