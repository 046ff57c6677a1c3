// Package observability owns the Prometheus registry and the listener that
// exposes it together with a database-backed health check.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the funrun collectors. All Record methods are safe on a nil
// receiver so callers without metrics need no guards.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	AccessDecisions *prometheus.CounterVec
	AuthEvents      *prometheus.CounterVec
}

// NewMetrics creates a private registry with the Go and process collectors
// and the funrun metrics registered on it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funrun_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "funrun_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AccessDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funrun_access_decisions_total",
				Help: "Access gate decisions by outcome",
			},
			[]string{"outcome"},
		),
		AuthEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funrun_auth_events_total",
				Help: "Authentication events (login, register, reset) by result",
			},
			[]string{"event", "result"},
		),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.AccessDecisions, m.AuthEvents)
	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordAccessDecision(outcome string) {
	if m == nil {
		return
	}
	m.AccessDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordAuthEvent(event, result string) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(event, result).Inc()
}
