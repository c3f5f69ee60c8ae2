// Package errors defines the JSON error envelope every endpoint answers with.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/observability"
)

type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"
)

var statusByCode = map[ErrorCode]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeValidation: http.StatusBadRequest,
	CodeNotFound:   http.StatusNotFound,
	CodeBadRequest: http.StatusBadRequest,
	CodeRateLimit:  http.StatusTooManyRequests,
}

type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetails attaches a client-facing detail string.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Cause:      err,
		Timestamp:  time.Now().UTC(),
	}
}

func New(code ErrorCode, message string) *AppError { return Wrap(nil, code, message) }

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func BadRequestWrap(err error, message string) *AppError {
	return Wrap(err, CodeBadRequest, message)
}

func RateLimit(message string) *AppError {
	return New(CodeRateLimit, message)
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// WriteError answers r with err as a JSON envelope tagged with the request ID
// from r's context. Errors with no *AppError in their chain become internal
// errors so causes never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = InternalWrap(err, "An unexpected error occurred")
	}
	appErr.RequestID = observability.GetRequestID(r.Context())

	level := slog.LevelWarn
	if appErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("error_code", string(appErr.Code)),
		slog.String("error_message", appErr.Message),
		slog.Int("status_code", appErr.StatusCode),
		slog.String("request_id", appErr.RequestID),
		slog.String("path", r.URL.Path),
		slog.Any("cause", appErr.Cause),
	)

	if encodeErr := writeJSON(w, appErr.StatusCode, ErrorResponse{Error: appErr}); encodeErr != nil {
		logger.Error("failed to encode error response", "encode_error", encodeErr, "request_id", appErr.RequestID)
	}
}

func WriteSuccess(w http.ResponseWriter, data any) {
	_ = writeJSON(w, http.StatusOK, SuccessResponse{Data: data, Success: true})
}

func WriteSuccessWithHeaders(w http.ResponseWriter, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteSuccess(w, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
