package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the auth endpoints.
type Metrics struct {
	registry *prometheus.Registry

	// AuthAttemptsTotal counts sign-in, registration and refresh attempts
	// by route and outcome.
	AuthAttemptsTotal *prometheus.CounterVec
	SessionsIssued    *prometheus.CounterVec
	TokenRejections   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on registry. A nil
// registry gets a fresh one, so tests never collide on the global default.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"route", "result"},
		),
		SessionsIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_sessions_issued_total",
				Help: "Total number of token pairs issued",
			},
			[]string{"method"},
		),
		TokenRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_rejections_total",
				Help: "Total number of rejected session tokens",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		m.AuthAttemptsTotal,
		m.SessionsIssued,
		m.TokenRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) attempt(route string, err error) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(route, outcome(err)).Inc()
}

func (m *Metrics) issued(method string) {
	if m == nil {
		return
	}
	m.SessionsIssued.WithLabelValues(method).Inc()
}

func (m *Metrics) rejected(kind string) {
	if m == nil || kind == "" {
		return
	}
	m.TokenRejections.WithLabelValues(kind).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
