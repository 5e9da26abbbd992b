package handlers

import (
	"encoding/json"
	"net/http"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

// OwnersHandler handles owner endpoints.
type OwnersHandler struct {
	repo *repository.Repository
}

// NewOwnersHandler creates a new owners handler.
func NewOwnersHandler(repo *repository.Repository) *OwnersHandler {
	return &OwnersHandler{repo: repo}
}

// Create handles POST /api/owners
func (h *OwnersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.OwnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, err := h.repo.CreateOwner(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err, "Failed to create owner")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, owner)
}

// List handles GET /api/owners
func (h *OwnersHandler) List(w http.ResponseWriter, r *http.Request) {
	owners, err := h.repo.ListOwners(r.Context())
	if err != nil {
		writeFailure(w, r, err, "Failed to list owners")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"owners": owners,
		"count":  len(owners),
	})
}

// Get handles GET /api/owners/:name
func (h *OwnersHandler) Get(w http.ResponseWriter, r *http.Request, name string) {
	owner, err := h.repo.GetOwner(r.Context(), name)
	if err != nil {
		writeFailure(w, r, err, "Failed to get owner")
		return
	}
	if owner == nil {
		middleware.WriteError(w, http.StatusNotFound, "Owner not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, owner)
}
