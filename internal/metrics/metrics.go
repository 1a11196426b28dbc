// Package metrics provides Prometheus instrumentation for the service.
//
// Standard metrics exposed automatically by prometheus/client_golang:
//   - go_goroutines, go_gc_duration_seconds, etc. (Go runtime)
//   - process_cpu_seconds_total, process_open_fds, etc. (process)
//
// Service-specific metrics registered here:
//   marquee_catalog_contents              — gauge: curated catalog size
//   marquee_http_requests_total           — counter: HTTP requests by method/path/status
//   marquee_http_request_duration_seconds — histogram: HTTP latency by method/path
//   marquee_admin_actions_total           — counter: admin mutations by action
//   marquee_tmdb_requests_total           — counter: provider lookups by outcome
//   marquee_auth_events_total             — counter: login attempts by result
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ── Gauges ────────────────────────────────────────────────────────────────────

// CatalogContents is the number of curated content records.
var CatalogContents = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "marquee_catalog_contents",
	Help: "Number of content records in the curated catalog.",
})

// ── Counters ──────────────────────────────────────────────────────────────────

// HTTPRequests counts HTTP requests by method, path, and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// AdminActions counts successful admin mutations by action kind.
var AdminActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_admin_actions_total",
	Help: "Successful admin mutations by action.",
}, []string{"action"})

// TMDBRequests counts metadata provider lookups by outcome.
var TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_tmdb_requests_total",
	Help: "Metadata provider requests by outcome.",
}, []string{"outcome"})

// AuthEvents counts login attempts by result.
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_auth_events_total",
	Help: "Login attempts by result.",
}, []string{"result"})

// ── Histograms ────────────────────────────────────────────────────────────────

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "marquee_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
}, []string{"method", "path"})

// ── Handler ───────────────────────────────────────────────────────────────────

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ── Middleware ────────────────────────────────────────────────────────────────

// Middleware wraps an HTTP handler to record request counts and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		dur := time.Since(start).Seconds()
		path := sanitizePath(r.URL.Path)
		status := strconv.Itoa(rw.status)
		HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		HTTPDuration.WithLabelValues(r.Method, path).Observe(dur)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// sanitizePath keeps label values short to bound cardinality.
func sanitizePath(path string) string {
	if len(path) > 64 {
		return path[:64] + "..."
	}
	return path
}

// ── Init (registry-scoped) ────────────────────────────────────────────────────

// Init registers all service metrics with the given prometheus.Registerer.
// This is provided for testing — pass prometheus.NewRegistry() to get an
// isolated registry. In production all metrics are registered via promauto
// to prometheus.DefaultRegisterer at package init time.
func Init(reg prometheus.Registerer) {
	httpReqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_http_requests_total",
		Help: "Total HTTP requests handled.",
	}, []string{"method", "path", "status"})

	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marquee_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	catalogContents := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "marquee_catalog_contents",
		Help: "Number of content records in the curated catalog.",
	})

	adminActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_admin_actions_total",
		Help: "Successful admin mutations by action.",
	}, []string{"action"})

	tmdbRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_tmdb_requests_total",
		Help: "Metadata provider requests by outcome.",
	}, []string{"outcome"})

	authEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_auth_events_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	reg.MustRegister(
		httpReqs,
		httpDur,
		catalogContents,
		adminActions,
		tmdbRequests,
		authEvents,
	)
}
