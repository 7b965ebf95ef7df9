package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrUpstream       = errors.New("upstream failure")
	ErrDataContract   = errors.New("data contract violation")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code string, status int, sentinel error, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: sentinel}
}

// InvalidInput creates a 400 error for malformed or missing required input.
func InvalidInput(message string) *AppError {
	return newAppError("INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput, message)
}

// Unauthorized creates a 401 error for a missing, expired, or malformed
// identity token.
func Unauthorized(message string) *AppError {
	return newAppError("UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized, message)
}

// Forbidden creates a 403 error for a caller whose identity is valid but not
// permitted to perform the operation (e.g. a marketplace mismatch).
func Forbidden(message string) *AppError {
	return newAppError("FORBIDDEN", http.StatusForbidden, ErrForbidden, message)
}

// Upstream creates a 502 error for an upstream dependency failure. The
// upstream's own status code is preserved in the message for diagnostics.
func Upstream(upstreamStatus int, message string) *AppError {
	return newAppError("UPSTREAM_ERROR", http.StatusBadGateway, ErrUpstream,
		fmt.Sprintf("upstream returned status %d: %s", upstreamStatus, message))
}

// DataContract creates a 502 error for an upstream response that violates the
// agreed data contract (e.g. an unrecognized enumerant). Schema drift should
// surface loudly rather than be silently absorbed.
func DataContract(message string) *AppError {
	return newAppError("DATA_CONTRACT_VIOLATION", http.StatusBadGateway, ErrDataContract, message)
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return newAppError("INTERNAL_ERROR", http.StatusInternalServerError, err,
		"an internal error occurred")
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

var sentinelStatus = map[error]int{
	ErrInvalidInput:   http.StatusBadRequest,
	ErrUnauthorized:   http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,
	ErrUpstream:       http.StatusBadGateway,
	ErrDataContract:   http.StatusBadGateway,
	ErrServiceUnavail: http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	for sentinel, status := range sentinelStatus {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return http.StatusInternalServerError
}
