package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/morislaflame/clo-client/internal/basket"
	"github.com/morislaflame/clo-client/internal/gateway"
	"github.com/morislaflame/clo-client/internal/order"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondEngineError maps engine sentinels onto HTTP statuses for the UI.
func respondEngineError(w http.ResponseWriter, err error) {
	var verrs order.ValidationErrors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: verrs,
		})
		return
	}

	switch {
	case errors.Is(err, basket.ErrNotInBasket):
		respondError(w, http.StatusNotFound, "not_found", "item not in basket")
	case errors.Is(err, order.ErrEmptyBasket):
		respondError(w, http.StatusBadRequest, "empty_basket", "basket is empty")
	case errors.Is(err, gateway.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", "session expired")
	case errors.Is(err, gateway.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", gateway.Message(err))
	default:
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.Status, "backend_error", apiErr.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
