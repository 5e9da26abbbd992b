package handlers

import (
	"net/http"
	"strconv"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/reports"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	svc *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(svc *reports.Service) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// ExpensesByAccount handles GET /api/reports/expenses-by-account. The date
// window comes either from month (+ optional year), which derives the
// billing cycle, or from explicit start_date/end_date.
func (h *ReportsHandler) ExpensesByAccount(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if month := r.URL.Query().Get("month"); month != "" {
		year := 0
		if rawYear := r.URL.Query().Get("year"); rawYear != "" {
			year, err = strconv.Atoi(rawYear)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, "invalid year")
				return
			}
		}
		filter.StartDate, filter.EndDate, err = reports.DeriveBillingWindow(month, year)
		if err != nil {
			writeFailure(w, r, err, "Failed to derive billing window")
			return
		}
	}

	report, err := h.svc.ExpensesByAccount(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err, "Failed to build report")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}
