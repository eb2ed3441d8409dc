package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/application/services"
)

// AccountHandler handles account registration and management.
type AccountHandler struct {
	service *services.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type createAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// CreateAccount handles POST /api/accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var payload createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	// Only an admin may register another admin.
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if payload.IsAdmin && !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "admin accounts require an admin caller")
		return
	}

	account, err := h.service.Create(r.Context(), services.CreateAccountInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		IsAdmin:   payload.IsAdmin,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, account)
}

// ListAccounts handles GET /api/accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetAccount handles GET /api/accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if account == nil {
		respondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

type updateAccountRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
}

// UpdateAccount handles PATCH /api/accounts/{id}
//
// A subject may update its own profile; an admin may update anyone and is
// the only caller allowed to change the admin flag.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if claims.SubjectID != id && !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "cannot modify another account")
		return
	}

	var payload updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.IsAdmin != nil && !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "only an admin may change the admin flag")
		return
	}

	account, err := h.service.Update(r.Context(), id, services.AccountPatch{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if account == nil {
		respondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	if payload.IsAdmin != nil {
		account, err = h.service.SetAdmin(r.Context(), id, *payload.IsAdmin)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, account)
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

// ChangePassword handles POST /api/accounts/{id}/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if claims.SubjectID != id && !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "cannot change another account's password")
		return
	}

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	account, err := h.service.ChangePassword(r.Context(), id, payload.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if account == nil {
		respondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// DeleteAccount handles DELETE /api/accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if claims.SubjectID != id && !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "cannot delete another account")
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
