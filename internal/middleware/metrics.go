package middleware

import (
	"encoding/json"
	"net/http"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the request/tool counters backing the /metrics observability
// snapshot. Counters are real prometheus.Counter/CounterVec collectors —
// updates are atomic under the hood — but the HTTP surface is a JSON
// snapshot rather than the Prometheus exposition format.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal prometheus.Counter
	routeRequests *prometheus.CounterVec
	toolInvokes   *prometheus.CounterVec
}

// NewMetrics creates and registers the counters used by the metrics
// middleware and the /metrics handler.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mcp_http_requests_total",
		Help: "Total number of HTTP requests served.",
	})
	routeRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_http_route_requests_total",
		Help: "Number of HTTP requests per route.",
	}, []string{"route"})
	toolInvokes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_tool_invocations_total",
		Help: "Number of tool invocations per tool name.",
	}, []string{"tool"})

	registry.MustRegister(requestsTotal, routeRequests, toolInvokes)

	return &Metrics{
		registry:      registry,
		requestsTotal: requestsTotal,
		routeRequests: routeRequests,
		toolInvokes:   toolInvokes,
	}
}

// Middleware returns HTTP middleware that increments the total and
// per-route request counters for every request that reaches it.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.requestsTotal.Inc()
			m.routeRequests.WithLabelValues(r.URL.Path).Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// RecordToolInvocation increments the invocation counter for the named
// tool. Called by the router on each tools/call whose tool name is
// registered, before the tool runs; an unknown tool name is not counted.
func (m *Metrics) RecordToolInvocation(tool string) {
	m.toolInvokes.WithLabelValues(tool).Inc()
}

// snapshot is the JSON body served at GET /metrics.
type snapshot struct {
	RequestsTotal float64            `json:"requests_total"`
	RouteRequests map[string]float64 `json:"route_requests"`
	ToolInvokes   map[string]float64 `json:"tool_invocations"`
}

// Handler returns the GET /metrics handler rendering a JSON snapshot of the
// current counter values.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		snap := m.Snapshot()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(snap)
	})
}

// Snapshot reads the current counter values from the registry by gathering
// the registered metric families and summing their counter samples.
func (m *Metrics) Snapshot() snapshot {
	out := snapshot{
		RouteRequests: make(map[string]float64),
		ToolInvokes:   make(map[string]float64),
	}

	families, err := m.registry.Gather()
	if err != nil {
		return out
	}

	for _, fam := range families {
		switch fam.GetName() {
		case "mcp_http_requests_total":
			for _, metric := range fam.GetMetric() {
				out.RequestsTotal += counterValue(metric)
			}
		case "mcp_http_route_requests_total":
			for _, metric := range fam.GetMetric() {
				out.RouteRequests[labelValue(metric, "route")] += counterValue(metric)
			}
		case "mcp_tool_invocations_total":
			for _, metric := range fam.GetMetric() {
				out.ToolInvokes[labelValue(metric, "tool")] += counterValue(metric)
			}
		}
	}

	return out
}

func counterValue(m *dto.Metric) float64 {
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
