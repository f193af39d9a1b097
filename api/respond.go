package api

import (
	"encoding/json"
	"net/http"
	"todo-api/errors"
	"todo-api/logger"
)

// errorResponse defines the JSON structure for error responses
type errorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// respondJSON writes v with the given status code
func respondJSON(w http.ResponseWriter, status int, v any, lg *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out, so the client gets a truncated body
		lg.Error("failed to encode response", map[string]any{
			"error":       err.Error(),
			"status_code": status,
		})
	}
}

// respondWithError sends a structured error response
func respondWithError(w http.ResponseWriter, apiErr *errors.APIError, lg *logger.Logger) {
	level := lg.Warn
	if apiErr.Code >= http.StatusInternalServerError {
		level = lg.Error
	}
	level("HTTP error response", map[string]any{
		"error_type":    string(apiErr.Type),
		"error_message": apiErr.Message,
		"status_code":   apiErr.Code,
		"error_details": apiErr.Details,
	})

	respondJSON(w, apiErr.Code, errorResponse{
		Error:   apiErr.Message,
		Type:    string(apiErr.Type),
		Details: apiErr.Details,
	}, lg)
}

// respondWithServiceError unwraps an APIError or falls back to a 500
func respondWithServiceError(w http.ResponseWriter, err error, lg *logger.Logger) {
	if apiErr, ok := errors.IsAPIError(err); ok {
		respondWithError(w, apiErr, lg)
		return
	}
	respondWithError(w, errors.NewInternalError(err.Error()), lg)
}
