// Package httputil renders JSON responses and maps application errors to
// HTTP status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"userhub/internal/apperr"
	"userhub/internal/logging"
)

// MessageResponse is the common success envelope: a human message plus an
// optional operation result.
type MessageResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondMessage writes a {message} body.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message}, statusCode)
}

// RespondResult writes a {message, result} body.
func RespondResult(w http.ResponseWriter, message string, result any, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message, Result: result}, statusCode)
}

// RespondError maps an application error onto the wire. Validation
// aggregates keep their per-field map, structured errors keep their status
// code, anything else becomes a 500 whose cause is only exposed outside
// production.
func RespondError(w http.ResponseWriter, r *http.Request, err error, isProduction bool) {
	var entityErr *apperr.EntityError
	if errors.As(err, &entityErr) {
		RespondJSON(w, entityErr, entityErr.StatusCode())
		return
	}

	var statusErr *apperr.ErrorWithStatus
	if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
		RespondJSON(w, statusErr, statusErr.StatusCode)
		return
	}

	logging.FromContext(r.Context()).Error("unexpected error", "error", err.Error())

	message := "Internal server error"
	if !isProduction {
		message = err.Error()
	}
	RespondMessage(w, message, http.StatusInternalServerError)
}
