// Package observability exposes Prometheus metrics and health
// endpoints for the procurement service.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procgo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "procgo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	procurementRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procgo_procurement_runs_total",
			Help: "Total procurement workflow runs by final status",
		},
		[]string{"status"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "procgo_stage_duration_seconds",
			Help:    "Workflow stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	quotesGatheredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procgo_quotes_gathered_total",
			Help: "Quote fan-out results by outcome",
		},
		[]string{"outcome"},
	)

	negotiationOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procgo_negotiation_outcomes_total",
			Help: "Negotiation outcomes recorded, by decision",
		},
		[]string{"decision"},
	)

	registeredAgents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "procgo_registered_agents",
			Help: "Number of agents currently registered",
		},
	)

	initOnce sync.Once
)

// InitMetrics registers all collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			procurementRunsTotal,
			stageDuration,
			quotesGatheredTotal,
			negotiationOutcomesTotal,
			registeredAgents,
		)
	})
}

// MetricsHandler returns the Prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProcurementRun records one completed workflow run.
func RecordProcurementRun(status string, duration time.Duration) {
	procurementRunsTotal.WithLabelValues(status).Inc()
}

// RecordStageDuration records how long a workflow stage took.
func RecordStageDuration(stage string, duration time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordQuoteResult records one quote fan-out result ("ok" or "error").
func RecordQuoteResult(outcome string) {
	quotesGatheredTotal.WithLabelValues(outcome).Inc()
}

// RecordNegotiationOutcome records one negotiation decision.
func RecordNegotiationOutcome(decision string) {
	negotiationOutcomesTotal.WithLabelValues(decision).Inc()
}

// SetRegisteredAgents sets the registered-agents gauge.
func SetRegisteredAgents(count int) {
	registeredAgents.Set(float64(count))
}
