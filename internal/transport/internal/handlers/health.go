package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// healthResponse represents the JSON response for health checks.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// healthHandler provides a simple, unauthenticated health check endpoint.
type healthHandler struct {
	service string
	version string
}

// NewHealthHandler creates a handler for the /health endpoint. service and
// version are reported verbatim in the response body, matching the values
// given to clients in initialize results.
func NewHealthHandler(service, version string) http.Handler {
	return &healthHandler{service: service, version: version}
}

// ServeHTTP handles GET requests for health checks. Only GET is allowed.
func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := healthResponse{Status: "ok", Service: h.service, Version: h.version}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}
