package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Invocation metrics
	InvocationsTotal *prometheus.CounterVec
	InvokeDuration   prometheus.Histogram

	// Credential metrics
	CredentialResolutionsTotal *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// Message metrics
	MessagesTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		InvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixpod_invocations_total",
				Help: "Total number of agent invocations by outcome",
			},
			[]string{"status"},
		),
		InvokeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pixpod_invoke_duration_seconds",
				Help:    "Duration of agent invocations in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		CredentialResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixpod_credential_resolutions_total",
				Help: "Credential source attempts by source and status",
			},
			[]string{"source", "status"},
		),

		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pixpod_sessions_active",
				Help: "Number of currently active sessions",
			},
		),
		SessionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pixpod_sessions_total",
				Help: "Total number of sessions created",
			},
		),

		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixpod_messages_total",
				Help: "Total number of conversation messages by role",
			},
			[]string{"role"},
		),
	}

	registry.MustRegister(
		m.InvocationsTotal,
		m.InvokeDuration,
		m.CredentialResolutionsTotal,
		m.SessionsActive,
		m.SessionsTotal,
		m.MessagesTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry for testing
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
