package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/security"
	"github.com/SkAltmash/ZapSplit/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the ledger error taxonomy onto HTTP status codes.
// Unknown errors become opaque 500s so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSplitTooSmall),
		errors.Is(err, domain.ErrTooManyParticipants),
		errors.Is(err, domain.ErrInvalidExtension),
		errors.Is(err, domain.ErrInvalidRecipient),
		errors.Is(err, domain.ErrPayLaterDisabled),
		errors.Is(err, security.ErrMalformedPIN):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrIncorrectPIN),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrCreditLimitExceeded):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled error in HTTP layer", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
