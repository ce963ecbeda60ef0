// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event names.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
	EventRefresh  = "refresh"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthMetricsRecorder is used by the account workflow.
type AuthMetricsRecorder interface {
	RecordAuthEvent(event string, outcome string)
	RecordUpload(kind string, err error)
}

// Collector is the Prometheus-backed recorder.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	authEvents   *prometheus.CounterVec
	uploads      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accounts_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_auth_events_total",
			Help: "Account workflow events by outcome.",
		}, []string{"event", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_media_uploads_total",
			Help: "Media uploads by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(c.httpRequests, c.httpLatency, c.authEvents, c.uploads)
	return c
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// RecordAuthEvent records a register/login/logout/refresh outcome.
func (c *Collector) RecordAuthEvent(event string, outcome string) {
	c.authEvents.WithLabelValues(event, outcome).Inc()
}

// RecordUpload records an avatar or cover image upload.
func (c *Collector) RecordUpload(kind string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.uploads.WithLabelValues(kind, outcome).Inc()
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards every observation.
type Noop struct{}

func (Noop) RecordAuthEvent(string, string) {}
func (Noop) RecordUpload(string, error)     {}
