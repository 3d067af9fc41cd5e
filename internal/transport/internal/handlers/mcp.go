package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/router"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// mcpHandler handles MCP protocol requests over HTTP.
type mcpHandler struct {
	router    router.Router
	responder transportcore.ErrorResponder
}

// NewMCPHandler creates a handler for the POST /mcp endpoint. It decodes a
// JSON-RPC request, dispatches it through router, and writes the resulting
// JSON-RPC response. Only POST is allowed.
func NewMCPHandler(rt router.Router, responder transportcore.ErrorResponder) http.Handler {
	if rt == nil {
		panic("router cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return &mcpHandler{router: rt, responder: responder}
}

func (h *mcpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read request body", "error", err)
		h.responder.BadRequest(w, err)
		return
	}
	defer func() {
		if closeErr := r.Body.Close(); closeErr != nil {
			slog.Warn("failed to close request body", "error", closeErr)
		}
	}()

	if isJSONArray(body) {
		slog.Warn("rejected JSON-RPC batch request")
		h.writeResponse(w, protocol.Fail(nil, protocol.CodeInvalidRequest, "batch requests are not supported", nil))
		return
	}

	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		slog.Warn("failed to parse JSON-RPC request", "error", err)
		h.writeResponse(w, protocol.Fail(nil, protocol.CodeParseError, "parse error", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("invalid JSON-RPC request", "error", err)
		h.writeResponse(w, protocol.Fail(req.ID, protocol.CodeInvalidRequest, "invalid request", err.Error()))
		return
	}

	resp, err := h.router.Route(r.Context(), &req)
	if err != nil {
		slog.Error("router error", "error", err, "method", req.Method)
		h.writeResponse(w, protocol.Fail(req.ID, protocol.CodeInternalError, "internal error", err.Error()))
		return
	}

	if resp == nil {
		// Notification: no response body expected.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeResponse(w, resp)
}

// isJSONArray reports whether body's first non-whitespace byte opens a JSON
// array, i.e. a JSON-RPC batch. Batches are a distinct, unsupported request
// shape from a single malformed object, so they get InvalidRequest rather
// than a generic ParseError.
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (h *mcpHandler) writeResponse(w http.ResponseWriter, resp *protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode JSON-RPC response", "error", err)
	}
}
