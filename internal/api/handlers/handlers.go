// Package handlers adapts the expense tracker's operations to HTTP. Every
// handler is a thin translation layer: decode, call, map errors to status
// codes. Validation failures map to 400, missing entities to 404, anything
// else is a 500 with the detail kept server-side.
package handlers

import (
	"errors"
	"net/http"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
)

// writeFailure maps an operation error to a response. Infrastructure
// failures are logged through the request-scoped logger.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, domain.ErrValidation) {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	log := logger.FromContext(r.Context())
	log.Error().Err(err).Msg(message)
	middleware.WriteError(w, http.StatusInternalServerError, message)
}
