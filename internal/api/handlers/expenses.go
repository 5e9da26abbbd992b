package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/archive"
	"expense-tracker/internal/categorize"
	"expense-tracker/internal/csvimport"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
	"expense-tracker/internal/repository"
)

// ExpensesHandler handles expense endpoints, including statement upload.
type ExpensesHandler struct {
	repo     *repository.Repository
	engine   *categorize.Engine
	pipeline *csvimport.Pipeline
	archive  *archive.Archive // nil when no bucket is configured
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(repo *repository.Repository, engine *categorize.Engine, pipeline *csvimport.Pipeline, arch *archive.Archive) *ExpensesHandler {
	return &ExpensesHandler{
		repo:     repo,
		engine:   engine,
		pipeline: pipeline,
		archive:  arch,
	}
}

// Create handles POST /api/expenses
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exp, err := domain.NewExpense(input)
	if err != nil {
		writeFailure(w, r, err, "Failed to create expense")
		return
	}
	if exp.Category == "" {
		if err := h.engine.Categorize(r.Context(), exp); err != nil {
			writeFailure(w, r, err, "Failed to categorize expense")
			return
		}
	}
	if err := h.repo.CreateExpense(r.Context(), exp); err != nil {
		writeFailure(w, r, err, "Failed to create expense")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, exp)
}

// List handles GET /api/expenses with optional filter query parameters.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.repo.ListExpenses(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err, "Failed to list expenses")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"count":    len(expenses),
	})
}

// Search handles GET /api/expenses/search?prefix=<id-prefix>
func (h *ExpensesHandler) Search(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		middleware.WriteError(w, http.StatusBadRequest, "prefix is required")
		return
	}

	expenses, err := h.repo.SearchExpensesByIDPrefix(r.Context(), prefix)
	if err != nil {
		writeFailure(w, r, err, "Failed to search expenses")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"count":    len(expenses),
	})
}

// Get handles GET /api/expenses/:id
func (h *ExpensesHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	exp, err := h.repo.GetExpense(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err, "Failed to get expense")
		return
	}
	if exp == nil {
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, exp)
}

// Update handles PATCH /api/expenses/:id
func (h *ExpensesHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var upd domain.ExpenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exp, err := h.repo.UpdateExpense(r.Context(), id, upd)
	if err != nil {
		writeFailure(w, r, err, "Failed to update expense")
		return
	}
	if exp == nil {
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, exp)
}

// UpdateAssignedCardMember handles PUT /api/expenses/:id/assigned-card-member
func (h *ExpensesHandler) UpdateAssignedCardMember(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		AssignedCardMember string `json:"assigned_card_member"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AssignedCardMember == "" {
		middleware.WriteError(w, http.StatusBadRequest, "assigned_card_member is required")
		return
	}

	exp, err := h.repo.UpdateExpense(r.Context(), id, domain.ExpenseUpdate{AssignedCardMember: req.AssignedCardMember})
	if err != nil {
		writeFailure(w, r, err, "Failed to update expense")
		return
	}
	if exp == nil {
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, exp)
}

// Delete handles DELETE /api/expenses/:id
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := h.repo.DeleteExpense(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err, "Failed to delete expense")
		return
	}
	if !deleted {
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Upload handles POST /api/expenses/upload (multipart form, field "file").
func (h *ExpensesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(csvimport.MaxUploadSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, csvimport.MaxUploadSize+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if err := csvimport.ValidateUpload(content); err != nil {
		writeFailure(w, r, err, "Invalid upload")
		return
	}

	// The archive is best-effort; the import result is authoritative.
	if h.archive != nil {
		if _, err := h.archive.Store(r.Context(), header.Filename, content); err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to archive statement")
		}
	}

	result, err := h.pipeline.Process(r.Context(), string(content))
	if err != nil {
		writeFailure(w, r, err, "Failed to import statement")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

func filterFromQuery(r *http.Request) (domain.ExpenseFilter, error) {
	q := r.URL.Query()
	filter := domain.ExpenseFilter{
		AccountID:          q.Get("account_id"),
		Category:           q.Get("category"),
		AssignedCardMember: q.Get("assigned_card_member"),
	}

	var err error
	if filter.StartDate, err = parseQueryDate(q.Get("start_date")); err != nil {
		return filter, domain.Validationf("invalid start_date %q", q.Get("start_date"))
	}
	if filter.EndDate, err = parseQueryDate(q.Get("end_date")); err != nil {
		return filter, domain.Validationf("invalid end_date %q", q.Get("end_date"))
	}

	if raw := q.Get("needs_review"); raw != "" {
		needsReview := raw == "true"
		if !needsReview && raw != "false" {
			return filter, domain.Validationf("invalid needs_review %q", raw)
		}
		filter.NeedsReview = &needsReview
	}
	return filter, nil
}

// parseQueryDate accepts a calendar date or a full RFC 3339 timestamp.
func parseQueryDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
