// Package apperr defines the structured errors that cross the
// service/validation boundary and decide the HTTP status of a response.
package apperr

import "net/http"

// FieldError is the per-field failure shape inside a validation aggregate.
type FieldError struct {
	Msg string `json:"msg"`
}

// Errors maps a field name to its first failing rule.
type Errors map[string]FieldError

// ErrorWithStatus is a business failure that carries its own HTTP status
// code. When the status is anything other than 422 it bypasses validation
// aggregation and is rendered verbatim.
type ErrorWithStatus struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Path       string `json:"path,omitempty"`
}

func (e *ErrorWithStatus) Error() string {
	return e.Message
}

// NewStatus builds an ErrorWithStatus without a field path.
func NewStatus(message string, statusCode int) *ErrorWithStatus {
	return &ErrorWithStatus{Message: message, StatusCode: statusCode}
}

// NewStatusPath builds an ErrorWithStatus tagged with the offending field.
func NewStatusPath(message string, statusCode int, path string) *ErrorWithStatus {
	return &ErrorWithStatus{Message: message, StatusCode: statusCode, Path: path}
}

// EntityError aggregates field validation failures for one request.
// Always rendered as 422 Unprocessable Entity.
type EntityError struct {
	Message string `json:"message"`
	Errors  Errors `json:"errors"`
}

func (e *EntityError) Error() string {
	return e.Message
}

// StatusCode satisfies the same contract as ErrorWithStatus.
func (e *EntityError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// NewEntityError wraps per-field failures under the common validation message.
func NewEntityError(errs Errors) *EntityError {
	return &EntityError{Message: "Validation error", Errors: errs}
}
