// Package mocks provides mock implementations for testing the transport layer.
package mocks

import (
	"context"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// Router is a mock implementation of router.Router.
type Router struct {
	RouteFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// Route calls the mock RouteFunc.
func (m *Router) Route(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if m.RouteFunc != nil {
		return m.RouteFunc(ctx, req)
	}
	return &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: req.ID}, nil
}

// ErrorResponder is a mock implementation of transportcore.ErrorResponder.
type ErrorResponder struct {
	UnauthorizedCalled      bool
	UnauthorizedErr         error
	TooManyRequestsCalled   bool
	TooManyRequestsErr      error
	InternalCalled          bool
	InternalErr             error
	BadRequestCalled        bool
	BadRequestErr           error
}

// Unauthorized records the call and writes a 401 response.
func (m *ErrorResponder) Unauthorized(w http.ResponseWriter, err error) {
	m.UnauthorizedCalled = true
	m.UnauthorizedErr = err
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}

// TooManyRequests records the call and writes a 429 response.
func (m *ErrorResponder) TooManyRequests(w http.ResponseWriter, err error) {
	m.TooManyRequestsCalled = true
	m.TooManyRequestsErr = err
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"too many requests"}`))
}

// InternalError records the call and writes a 500 response.
func (m *ErrorResponder) InternalError(w http.ResponseWriter, err error) {
	m.InternalCalled = true
	m.InternalErr = err
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"internal server error"}`))
}

// BadRequest records the call and writes a 400 response.
func (m *ErrorResponder) BadRequest(w http.ResponseWriter, err error) {
	m.BadRequestCalled = true
	m.BadRequestErr = err
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`{"error":"bad request"}`))
}

// Reset clears all recorded state.
func (m *ErrorResponder) Reset() {
	m.UnauthorizedCalled = false
	m.UnauthorizedErr = nil
	m.TooManyRequestsCalled = false
	m.TooManyRequestsErr = nil
	m.InternalCalled = false
	m.InternalErr = nil
	m.BadRequestCalled = false
	m.BadRequestErr = nil
}
