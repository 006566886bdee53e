package http

import (
	"errors"
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// LoginHandler owns the credential endpoints: login and the forgot/reset
// password round trip.
type LoginHandler struct {
	Login *service.LoginService
}

// HandleLogin handles POST /v1/login.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.Login.Login(r.Context(), service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IP:        httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(result))
}

// HandleForgot handles POST /v1/login/forgot. Unknown addresses get the same
// success answer as known ones, so the endpoint cannot be used to probe for
// accounts.
func (h *LoginHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.ForgotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Login.Forgot(r.Context(), req.Email); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleReset handles POST /v1/login/reset.
func (h *LoginHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.ResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Key == "" || req.Password == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Login.Reset(r.Context(), req.Email, req.Key, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}
