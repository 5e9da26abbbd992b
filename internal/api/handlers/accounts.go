package handlers

import (
	"encoding/json"
	"net/http"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

// AccountsHandler handles account endpoints.
type AccountsHandler struct {
	repo *repository.Repository
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(repo *repository.Repository) *AccountsHandler {
	return &AccountsHandler{repo: repo}
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.repo.CreateAccount(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err, "Failed to create account")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, account)
}

// List handles GET /api/accounts?owner=<name>
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repo.ListAccounts(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeFailure(w, r, err, "Failed to list accounts")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// Get handles GET /api/accounts/:id
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request, accountID string) {
	account, err := h.repo.GetAccount(r.Context(), accountID)
	if err != nil {
		writeFailure(w, r, err, "Failed to get account")
		return
	}
	if account == nil {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, account)
}

// Deactivate handles POST /api/accounts/:id/deactivate
func (h *AccountsHandler) Deactivate(w http.ResponseWriter, r *http.Request, accountID string) {
	account, err := h.repo.UpdateAccount(r.Context(), accountID, false)
	if err != nil {
		writeFailure(w, r, err, "Failed to deactivate account")
		return
	}
	if account == nil {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, account)
}
