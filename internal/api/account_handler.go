// Package api provides the thin HTTP layer over the account service.
// Handlers parse and validate payloads and map service errors to status
// codes; every business rule lives in the service layer.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/service"
)

// AccountHandler handles account-related API requests.
type AccountHandler struct {
	accounts service.AccountService
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Routes mounts the account endpoints on a chi router.
func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Post("/auth", h.Authenticate)
	r.Post("/confirm", h.Confirm)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Remove)
	return r
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.Create(r.Context(), service.CreateData{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GravatarEmail: req.GravatarEmail,
	}, true)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, newAccountResponse(account))
}

// Authenticate handles POST /accounts/auth. On success it returns the
// account together with a renewed bearer token.
func (h *AccountHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), service.AuthData{
		Token:    req.Token,
		Email:    req.Email,
		Password: req.Password,
	}, true)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	token, err := h.accounts.GetAuthenticationToken(r.Context(), account, true)
	if err != nil {
		slog.Error("failed to issue auth token", "error", err, "account_id", account.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to issue authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Account: newAccountResponse(account),
		Token:   token.ID.String(),
		Timeout: token.Timeout,
	})
}

// Confirm handles POST /accounts/confirm.
func (h *AccountHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.Confirm(r.Context(), service.ConfirmData{Token: req.Token})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newAccountResponse(account))
}

// ForgotPassword handles POST /accounts/forgot-password.
func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, err := h.accounts.ForgotPassword(r.Context(), service.LookupData{Email: req.Email}); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, nil)
}

// ResetPassword handles POST /accounts/reset-password.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.ResetPassword(r.Context(), service.ResetPasswordData{
		Token:    req.Token,
		Password: req.Password,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newAccountResponse(account))
}

// Get handles GET /accounts/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid account ID")
		return
	}

	account, err := h.accounts.Get(r.Context(), service.LookupData{ID: &id})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newAccountResponse(account))
}

// Update handles PUT /accounts/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.Get(r.Context(), service.LookupData{ID: &id})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	updated, err := h.accounts.Update(r.Context(), account, service.Fields{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GravatarEmail: req.GravatarEmail,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newAccountResponse(updated))
}

// Remove handles DELETE /accounts/{id}.
func (h *AccountHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid account ID")
		return
	}

	account, err := h.accounts.Get(r.Context(), service.LookupData{ID: &id})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if _, err := h.accounts.Remove(r.Context(), account); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}
