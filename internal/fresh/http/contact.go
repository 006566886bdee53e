package http

import (
	"net/http"
	"strings"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// ContactHandler relays contact-form submissions to the configured inbox.
type ContactHandler struct {
	Mailer    service.Mailer
	ContactTo string
}

// HandleContact handles POST /v1/contact.
func (h *ContactHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Message == "" || !strings.Contains(req.Email, "@") {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.Mailer.Send(r.Context(), h.ContactTo, "Contact form message", "contact", map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}
