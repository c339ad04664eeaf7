// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "bytonbyte"

// Login outcomes. Only OutcomeSuccess is visible to the caller as success;
// every other outcome is reported to clients as invalid credentials.
const (
	OutcomeSuccess      = "success"
	OutcomeUnknownEmail = "unknown_email"
	OutcomeBadPassword  = "bad_password"
	OutcomeInactive     = "inactive"
	OutcomeError        = "error"
)

type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UploadsByTarget *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		UploadsByTarget: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gallery_uploads_total",
			Help:      "Gallery uploads by storage backend and result.",
		}, []string{"backend", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.LoginAttempts, m.HTTPRequests, m.HTTPDuration, m.UploadsByTarget)
	}
	return m
}

// NewRegistry returns a registry with the Go runtime and process collectors
// plus the application collectors.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, New(reg)
}
