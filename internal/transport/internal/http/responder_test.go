// Package http provides HTTP response utilities for the MCP server.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// newTestResponder creates a responder for testing.
func newTestResponder() transportcore.ErrorResponder {
	return NewErrorResponder()
}

func TestResponder_Unauthorized(t *testing.T) {
	t.Parallel()

	r := newTestResponder()
	w := httptest.NewRecorder()

	r.Unauthorized(w, errors.New("missing token"))

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Unauthorized() status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Errorf("Unauthorized() body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Error("Unauthorized() body missing field \"error\"")
	}
}

func TestResponder_TooManyRequests(t *testing.T) {
	t.Parallel()

	r := newTestResponder()
	w := httptest.NewRecorder()

	r.TooManyRequests(w, errors.New("rate limited"))

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("TooManyRequests() status = %v, want %v", resp.StatusCode, http.StatusTooManyRequests)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		t.Errorf("TooManyRequests() Content-Type = %v, want application/json", contentType)
	}
}

func TestResponder_InternalError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "standard error", err: errors.New("database connection failed"), wantStatus: http.StatusInternalServerError},
		{name: "nil error", err: nil, wantStatus: http.StatusInternalServerError},
		{name: "wrapped error", err: errors.New("outer: inner error"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResponder()
			w := httptest.NewRecorder()

			r.InternalError(w, tt.err)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("InternalError() status = %v, want %v", resp.StatusCode, tt.wantStatus)
			}

			contentType := resp.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				t.Errorf("InternalError() Content-Type = %v, want application/json", contentType)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Errorf("InternalError() body is not valid JSON: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Error("InternalError() body missing field \"error\"")
			}
		})
	}
}

func TestResponder_BadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation error", err: errors.New("missing required field: name"), wantStatus: http.StatusBadRequest},
		{name: "parse error", err: errors.New("invalid JSON syntax"), wantStatus: http.StatusBadRequest},
		{name: "nil error", err: nil, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResponder()
			w := httptest.NewRecorder()

			r.BadRequest(w, tt.err)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("BadRequest() status = %v, want %v", resp.StatusCode, tt.wantStatus)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Errorf("BadRequest() body is not valid JSON: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Error("BadRequest() body missing field \"error\"")
			}
		})
	}
}

func TestResponder_ErrorResponseFormat(t *testing.T) {
	t.Parallel()

	r := newTestResponder()

	testCases := []struct {
		name   string
		call   func(w http.ResponseWriter)
		status int
	}{
		{
			name:   "InternalError",
			call:   func(w http.ResponseWriter) { r.InternalError(w, errors.New("test error")) },
			status: http.StatusInternalServerError,
		},
		{
			name:   "BadRequest",
			call:   func(w http.ResponseWriter) { r.BadRequest(w, errors.New("test error")) },
			status: http.StatusBadRequest,
		},
		{
			name:   "Unauthorized",
			call:   func(w http.ResponseWriter) { r.Unauthorized(w, errors.New("test error")) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "TooManyRequests",
			call:   func(w http.ResponseWriter) { r.TooManyRequests(w, errors.New("test error")) },
			status: http.StatusTooManyRequests,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			tc.call(w)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
				t.Errorf("%s should return application/json, got %s", tc.name, ct)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Errorf("%s returned invalid JSON: %v", tc.name, err)
			}

			if resp.StatusCode != tc.status {
				t.Errorf("%s status = %d, want %d", tc.name, resp.StatusCode, tc.status)
			}
		})
	}
}
