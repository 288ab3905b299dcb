package httpx

import "net/http"

// APIError is an error that knows how to render itself as an envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

// NewError registers a code with its status and default message.
func NewError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// WithMessage returns a copy of e with message replaced.
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *APIError) WithDetails(details any) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

var (
	ErrValidation   = NewError(http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed")
	ErrUnauthorized = NewError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden    = NewError(http.StatusForbidden, "FORBIDDEN", "Access denied")
	ErrNotFound     = NewError(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrRateLimited  = NewError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
	ErrInternal     = NewError(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	ErrUnavailable  = NewError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)
