package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// LogoutHandler handles DELETE /v1/logout. The route carries no authn
// middleware on purpose: logout is tolerant of absent or already-revoked
// credentials, so a stale client retrying a logout still gets a success.
type LogoutHandler struct {
	Router *Router
	Login  *service.LoginService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if v := h.Router.verdictFor(r, false); v.IsValid {
		creds := v.Credentials
		if err := h.Login.Logout(r.Context(), creds.Session.ID, creds.Session.UserID); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}
