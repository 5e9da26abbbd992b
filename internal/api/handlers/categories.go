package handlers

import (
	"encoding/json"
	"net/http"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	repo *repository.Repository
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(repo *repository.Repository) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.repo.CreateCategory(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err, "Failed to create category")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, category)
}

// List handles GET /api/categories?account_id=<id>
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context(), r.URL.Query().Get("account_id"))
	if err != nil {
		writeFailure(w, r, err, "Failed to list categories")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// Get handles GET /api/categories/:name
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request, name string) {
	category, err := h.repo.GetCategory(r.Context(), name)
	if err != nil {
		writeFailure(w, r, err, "Failed to get category")
		return
	}
	if category == nil {
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, category)
}

// UpdateLabels handles PUT /api/categories/:name/labels
func (h *CategoriesHandler) UpdateLabels(w http.ResponseWriter, r *http.Request, name string) {
	var req struct {
		Labels []string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Labels == nil {
		middleware.WriteError(w, http.StatusBadRequest, "labels is required")
		return
	}

	category, err := h.repo.UpdateCategory(r.Context(), name, domain.CategoryUpdate{Labels: req.Labels})
	if err != nil {
		writeFailure(w, r, err, "Failed to update category labels")
		return
	}
	if category == nil {
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, category)
}

// Deactivate handles POST /api/categories/:name/deactivate
func (h *CategoriesHandler) Deactivate(w http.ResponseWriter, r *http.Request, name string) {
	inactive := false
	category, err := h.repo.UpdateCategory(r.Context(), name, domain.CategoryUpdate{Active: &inactive})
	if err != nil {
		writeFailure(w, r, err, "Failed to deactivate category")
		return
	}
	if category == nil {
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, category)
}
