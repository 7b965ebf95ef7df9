package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
	"github.com/ordercloud-api/searchproxy/pkg/logger"
	"github.com/ordercloud-api/searchproxy/pkg/validator"
)

// Response is the standard JSON error envelope. Successful responses from the
// proxy echo the upstream document verbatim and do not use this envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRawJSON writes a pre-serialized JSON document verbatim with the given
// status code. Used to pass an upstream response body through unchanged.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// sentinelMapping describes how one sentinel error renders in the envelope.
// An empty message means the error's own text is safe to show.
type sentinelMapping struct {
	sentinel error
	status   int
	code     string
	message  string
}

var sentinelMappings = []sentinelMapping{
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token"},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "forbidden"},
	{apperrors.ErrUpstream, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream search service failed"},
	{apperrors.ErrDataContract, http.StatusBadGateway, "DATA_CONTRACT_VIOLATION", ""},
}

// WriteError writes a standardized error envelope based on the error type. It
// understands AppError and the sentinel errors from the errors package, logs
// internal server errors, and prefers the request-scoped logger from context
// (set by the RequestLogger middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	// Echoed back so callers can quote it when reporting problems.
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	for _, m := range sentinelMappings {
		if errors.Is(err, m.sentinel) {
			status, code, message = m.status, m.code, m.message
			if message == "" {
				message = err.Error()
			}
			break
		}
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

// WriteValidationError writes a 400 envelope carrying field-level messages
// when err is a validator.ValidationError, or a generic invalid-input envelope
// otherwise.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}
