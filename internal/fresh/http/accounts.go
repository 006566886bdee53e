package http

import (
	"net/http"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
)

// AccountsHandler serves the customer-facing account record: the owner's
// self-service view plus the staff CRUD, notes and status trail.
type AccountsHandler struct {
	Accounts *service.AccountService
	Links    *service.LinkService
	Roles    *service.RoleService
	Store    store.Store
}

// HandleMy handles GET /v1/accounts/my.
func (h *AccountsHandler) HandleMy(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	link := creds.User.Roles.Account
	if link == nil {
		freshsdk.ErrInsufficientRole.WriteError(w)
		return
	}

	account, err := h.Accounts.GetByID(r.Context(), link.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountInfo(account))
}

// HandleUpdateMy handles PUT /v1/accounts/my.
func (h *AccountsHandler) HandleUpdateMy(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFrom(r.Context())
	link := creds.User.Roles.Account
	if link == nil {
		freshsdk.ErrInsufficientRole.WriteError(w)
		return
	}

	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Accounts.UpdateName(r.Context(), link.ID, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}

	account, err := h.Accounts.GetByID(r.Context(), link.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountInfo(account))
}

// HandleCreate handles POST /v1/accounts.
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	account, err := h.Accounts.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccountInfo(account))
}

// HandleGet handles GET /v1/accounts/{id}.
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountInfo(account))
}

// HandleList handles GET /v1/accounts.
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	accounts, total, err := h.Accounts.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.AccountInfo, len(accounts))
	for i, a := range accounts {
		infos[i] = toAccountInfo(a)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListAccountsResponse{Accounts: infos, Total: total})
}

// HandleUpdateName handles PUT /v1/accounts/{id}.
func (h *AccountsHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.CreateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Accounts.UpdateName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleAddNote handles POST /v1/accounts/{id}/notes.
func (h *AccountsHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.AddNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Data == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	author, ok := h.callerAdmin(w, r)
	if !ok {
		return
	}

	if err := h.Accounts.AddNote(r.Context(), r.PathValue("id"), req.Data, author); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, freshsdk.MessageResponse{Message: "success"})
}

// HandleListNotes handles GET /v1/accounts/{id}/notes.
func (h *AccountsHandler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Accounts.ListNotes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.NoteInfo, len(notes))
	for i, n := range notes {
		infos[i] = toNoteInfo(n)
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.ListNotesResponse{Notes: infos})
}

// HandleSetStatus handles PUT /v1/accounts/{id}/status.
func (h *AccountsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req freshsdk.SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	author, ok := h.callerAdmin(w, r)
	if !ok {
		return
	}

	if err := h.Accounts.SetStatus(r.Context(), r.PathValue("id"), req.Status, author); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleHistory handles GET /v1/accounts/{id}/status/history.
func (h *AccountsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Accounts.StatusHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	infos := make([]freshsdk.StatusEntryInfo, len(history))
	for i := range history {
		infos[i] = *toStatusEntryInfo(&history[i])
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.StatusHistoryResponse{History: infos})
}

// HandleLinkUser handles PUT /v1/accounts/{id}/user.
func (h *AccountsHandler) HandleLinkUser(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Links.LinkAccount(r.Context(), r.PathValue("id"), user.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, freshsdk.MessageResponse{Message: "success"})
}

// HandleUnlinkUser handles DELETE /v1/accounts/{id}/user.
func (h *AccountsHandler) HandleUnlinkUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Links.UnlinkAccount(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/accounts/{id}.
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// callerAdmin resolves the authenticated user's admin record for use as a
// note or status author. Writes the error response itself when the caller
// has no admin role.
func (h *AccountsHandler) callerAdmin(w http.ResponseWriter, r *http.Request) (domain.Admin, bool) {
	creds := credentialsFrom(r.Context())

	roles, err := h.Roles.Hydrate(r.Context(), creds.User)
	if err != nil {
		writeServiceError(w, r, err)
		return domain.Admin{}, false
	}
	if roles.Admin == nil {
		freshsdk.ErrInsufficientRole.WriteError(w)
		return domain.Admin{}, false
	}
	return *roles.Admin, true
}
