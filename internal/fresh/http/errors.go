package http

import (
	"errors"
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// writeServiceError maps service-layer sentinels onto the API error shapes.
// Anything unmapped is an internal error and gets logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		freshsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		freshsdk.ErrTooManyAttempts.WriteError(w)
	case errors.Is(err, service.ErrAccountDisabled):
		freshsdk.ErrAccountDisabled.WriteError(w)

	case errors.Is(err, service.ErrInvalidResetKey):
		freshsdk.NewAPIError(http.StatusBadRequest, "invalid_reset_key",
			"the reset key is wrong, expired or already used").WriteError(w)
	case errors.Is(err, service.ErrInvalidVerifyKey):
		freshsdk.NewAPIError(http.StatusBadRequest, "invalid_verify_key",
			"the verification key is wrong, expired or already used").WriteError(w)

	case errors.Is(err, service.ErrUsernameTaken):
		freshsdk.NewAPIError(http.StatusConflict, "username_taken",
			"that username is already in use").WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		freshsdk.NewAPIError(http.StatusConflict, "email_taken",
			"that e-mail address is already in use").WriteError(w)
	case errors.Is(err, service.ErrLinkConflict):
		freshsdk.NewAPIError(http.StatusConflict, "link_conflict",
			"the user or role is already linked elsewhere").WriteError(w)

	case errors.Is(err, service.ErrUnknownGroup):
		freshsdk.NewAPIError(http.StatusBadRequest, "unknown_group",
			"one of the named groups does not exist").WriteError(w)
	case errors.Is(err, service.ErrUnknownStatus):
		freshsdk.NewAPIError(http.StatusBadRequest, "unknown_status",
			"the named status does not exist in the catalog").WriteError(w)
	case errors.Is(err, service.ErrReservedGroup):
		freshsdk.NewAPIError(http.StatusForbidden, "reserved_group",
			"the root group cannot be modified").WriteError(w)

	case errors.Is(err, store.ErrNotFound):
		freshsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, store.ErrAlreadyExists):
		freshsdk.ErrConflict.WriteError(w)

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		freshsdk.ErrServerError.WriteError(w)
	}
}
