package utils

import "net/http"

// AppError is a typed error carrying the HTTP status it should map to.
// Services return these; the centralized error handler translates them
// into the response envelope.
type AppError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError reports a 400 with field-level messages.
func NewValidationError(errs ...string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: "Validation failed", Errors: errs}
}

// NewConflictError reports a duplicate-field error. The original API used
// 400 rather than 409 for duplicates, kept for compatibility.
func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// NewUnauthorizedError reports a 401.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

// NewForbiddenError reports a 403.
func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

// NewNotFoundError reports a 404.
func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// NewUpstreamError reports a 502 for third-party API failures, carrying
// the upstream message as detail.
func NewUpstreamError(detail string) *AppError {
	return &AppError{Status: http.StatusBadGateway, Message: "Weather API error", Errors: []string{detail}}
}

// NewInternalError reports a 500.
func NewInternalError(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message}
}
