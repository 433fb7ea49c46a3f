// Package metrics registers the Prometheus collectors for drafting and the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_provider_calls_total",
			Help: "LLM provider calls by drafting operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outreach_provider_call_duration_seconds",
			Help:    "Duration of LLM provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"operation"},
	)

	ParseFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_parse_fallbacks_total",
			Help: "Model responses that did not parse and fell back to defaults",
		},
		[]string{"operation"},
	)

	WordCountWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_word_count_warnings_total",
			Help: "Generated bodies outside the word range of their length tier",
		},
		[]string{"length"},
	)

	TemplatingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_templating_failures_total",
			Help: "Templating responses rejected as unusable",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
