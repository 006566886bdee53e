package http

import (
	"net/http"
	"strings"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// SignupHandler owns registration and the e-mail verification round trip.
type SignupHandler struct {
	Signup *service.SignupService
}

// HandleSignup handles POST /v1/signup.
func (h *SignupHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Username == "" || req.Password == "" ||
		!strings.Contains(req.Email, "@") {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if strings.EqualFold(strings.TrimSpace(req.Username), service.RootUsername) {
		freshsdk.ErrRootProtected.WriteError(w)
		return
	}

	result, err := h.Signup.Signup(r.Context(), service.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		IP:        httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(result))
}

// HandleVerify handles POST /v1/signup/verify.
func (h *SignupHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Key == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Signup.Verify(r.Context(), req.Email, req.Key); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleResend handles POST /v1/signup/verify/resend.
func (h *SignupHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.ResendVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Signup.ResendVerification(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}
