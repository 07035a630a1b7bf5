package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/onnwee/scorebook/backend/internal/logger"
)

// ErrorCode represents a structured error code
type ErrorCode string

// Error code constants organized by category
const (
	// SCHEDULE_ - Schedule lookup errors
	ErrScheduleInvalidDate ErrorCode = "SCHEDULE_INVALID_DATE"
	ErrScheduleFailed      ErrorCode = "SCHEDULE_FETCH_FAILED"

	// GAME_ - Game detail errors
	ErrGameInvalidID ErrorCode = "GAME_INVALID_ID"
	ErrGameNotFound  ErrorCode = "GAME_NOT_FOUND"
	ErrGameFailed    ErrorCode = "GAME_FETCH_FAILED"

	// UPSTREAM_ - Stats provider errors
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"

	// CACHE_ - Cache admin errors
	ErrCacheInvalidScope ErrorCode = "CACHE_INVALID_SCOPE"

	// SYSTEM_ - System and server errors
	ErrSystemInternal    ErrorCode = "SYSTEM_INTERNAL"
	ErrSystemUnavailable ErrorCode = "SYSTEM_UNAVAILABLE"

	// VALIDATION_ - Request validation errors
	ErrValidationInvalidValue ErrorCode = "VALIDATION_INVALID_VALUE"
	ErrValidationMissingField ErrorCode = "VALIDATION_MISSING_FIELD"

	// RATE_LIMIT_ - Rate limiting errors
	ErrRateLimitGlobal ErrorCode = "RATE_LIMIT_GLOBAL"
	ErrRateLimitIP     ErrorCode = "RATE_LIMIT_IP"
)

// Error represents a structured API error
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	status    int                    // HTTP status code (not serialized)
}

// ErrorResponse is the top-level error response wrapper
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// New creates a new API error
func New(code ErrorCode, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		status:  status,
	}
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRequestID adds a request ID to the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.RequestID = requestID
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status returns the HTTP status code
func (e *Error) Status() int {
	return e.status
}

// WriteError writes a structured error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// Helper functions for common errors

// ScheduleInvalidDate creates an invalid schedule date error
func ScheduleInvalidDate(message string) *Error {
	if message == "" {
		message = "Invalid date, expected YYYY-MM-DD"
	}
	return New(ErrScheduleInvalidDate, message, http.StatusBadRequest)
}

// ScheduleFailed creates a schedule fetch failed error
func ScheduleFailed(message string) *Error {
	if message == "" {
		message = "Failed to load schedule"
	}
	return New(ErrScheduleFailed, message, http.StatusBadGateway)
}

// GameInvalidID creates an invalid game ID error
func GameInvalidID(message string) *Error {
	if message == "" {
		message = "Invalid game ID, expected YYYY-MM-DD-AWY-HOM-N"
	}
	return New(ErrGameInvalidID, message, http.StatusBadRequest)
}

// GameNotFound creates a game not found error
func GameNotFound(gameID string) *Error {
	return New(ErrGameNotFound, "Game not found", http.StatusNotFound).
		WithDetails(map[string]interface{}{"game_id": gameID})
}

// GameFailed creates a game fetch failed error
func GameFailed(message string) *Error {
	if message == "" {
		message = "Failed to load game details"
	}
	return New(ErrGameFailed, message, http.StatusBadGateway)
}

// UpstreamUnavailable creates an upstream unavailable error
func UpstreamUnavailable(message string) *Error {
	if message == "" {
		message = "Stats provider unavailable"
	}
	return New(ErrUpstreamUnavailable, message, http.StatusBadGateway)
}

// UpstreamTimeout creates an upstream timeout error
func UpstreamTimeout() *Error {
	return New(ErrUpstreamTimeout, "Stats provider timed out", http.StatusGatewayTimeout)
}

// CacheInvalidScope creates an invalid cache scope error
func CacheInvalidScope(scope string) *Error {
	return New(ErrCacheInvalidScope, "Unknown cache scope: "+scope, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"scope": scope})
}

// SystemInternal creates an internal server error
func SystemInternal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return New(ErrSystemInternal, message, http.StatusInternalServerError)
}

// SystemUnavailable creates a service unavailable error
func SystemUnavailable(message string) *Error {
	if message == "" {
		message = "Service unavailable"
	}
	return New(ErrSystemUnavailable, message, http.StatusServiceUnavailable)
}

// ValidationInvalidValue creates an invalid value error
func ValidationInvalidValue(field string, message string) *Error {
	if message == "" {
		message = "Invalid value for field: " + field
	}
	return New(ErrValidationInvalidValue, message, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// ValidationMissingField creates a missing field error
func ValidationMissingField(field string) *Error {
	return New(ErrValidationMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// RateLimitGlobal creates a global rate limit error
func RateLimitGlobal() *Error {
	return New(ErrRateLimitGlobal, "Rate limit exceeded - too many requests globally", http.StatusTooManyRequests)
}

// RateLimitIP creates an IP rate limit error
func RateLimitIP() *Error {
	return New(ErrRateLimitIP, "Rate limit exceeded - too many requests from your IP", http.StatusTooManyRequests)
}

// GetRequestID extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WriteErrorWithContext writes a structured error response with request ID from context
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if reqID := GetRequestID(r.Context()); reqID != "" {
		err = err.WithRequestID(reqID)
	}
	WriteError(w, err)
}
