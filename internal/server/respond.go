package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/bjarke-xyz/benefit-gateway/internal/metrics"
)

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeRepoError maps repository failures onto the error taxonomy: malformed
// identifiers are client errors, missing records are 404, anything else is a
// logged 500.
func (s *server) writeRepoError(w http.ResponseWriter, op string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		errorResponse(w, http.StatusBadRequest, "invalid application id")
	case errors.Is(err, domain.ErrNotFound):
		errorResponse(w, http.StatusNotFound, "application not found")
	case errors.As(err, &validationErr):
		errorResponse(w, http.StatusBadRequest, validationErr.Error())
	default:
		s.logger.Error("storage operation failed", "op", op, "error", err)
		metrics.StorageErrors.WithLabelValues(op).Inc()
		errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
