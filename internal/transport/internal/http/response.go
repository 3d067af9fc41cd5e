package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// errorResponse represents a JSON error response body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorResponder implements transportcore.ErrorResponder.
type errorResponder struct{}

// NewErrorResponder creates a new error responder.
func NewErrorResponder() transportcore.ErrorResponder {
	return &errorResponder{}
}

// Unauthorized sends a 401 Unauthorized response with a JSON error body.
func (e *errorResponder) Unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	slog.Warn("unauthorized request", "error", err)

	resp := errorResponse{
		Error:   "unauthorized",
		Message: "authentication required",
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// TooManyRequests sends a 429 Too Many Requests response with a JSON error body.
func (e *errorResponder) TooManyRequests(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	slog.Warn("rate limit exceeded", "error", err)

	resp := errorResponse{
		Error:   "too_many_requests",
		Message: "rate limit exceeded",
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// InternalError sends a 500 Internal Server Error response.
func (e *errorResponder) InternalError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	slog.Error("internal server error", "error", err)

	resp := errorResponse{
		Error:   "internal_error",
		Message: "an internal server error occurred",
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// BadRequest sends a 400 Bad Request response.
func (e *errorResponder) BadRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	slog.Warn("bad request", "error", err)

	message := "invalid request"
	if err != nil {
		message = err.Error()
	}

	resp := errorResponse{
		Error:   "bad_request",
		Message: message,
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}
