// Package metrics exposes Prometheus collectors for tool invocations and the
// process-wide error boundary.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slack_mcp_tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "transport", "outcome"}, // outcome: ok|invalid|not_found|profile_unavailable|error
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slack_mcp_tool_latency_seconds",
			Help:    "Tool invocation latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool"},
	)

	AsyncErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slack_mcp_async_errors_total",
			Help: "Asynchronous errors seen by the error boundary",
		},
		[]string{"source", "disposition"}, // disposition: ignore|log|escalate
	)

	MCPSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "slack_mcp_sessions_active",
			Help: "Number of connected MCP sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(ToolInvocations)
	prometheus.MustRegister(ToolLatency)
	prometheus.MustRegister(AsyncErrors)
	prometheus.MustRegister(MCPSessions)
}

// Handler returns HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
