// Package metrics provides Prometheus instrumentation for the phone field
// service. This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	FieldEventsTotal     *prometheus.CounterVec
	CommitsTotal         *prometheus.CounterVec
	FormatRequestsTotal  *prometheus.CounterVec
	SessionConflicts     prometheus.Counter
	NormalizationsTotal  *prometheus.CounterVec
	RequestLatencySecond *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the metrics on reg. Passing nil uses a fresh registry,
// which keeps tests independent of the global default registerer.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		FieldEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_events_total",
				Help:      "Total number of field events applied, by event type",
			},
			[]string{"event"},
		),
		CommitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_commits_total",
				Help:      "Total number of field commits, by detected plan and validity",
			},
			[]string{"plan", "invalid"},
		),
		FormatRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "format_requests_total",
				Help:      "Total number of stateless format evaluations, by detection kind",
			},
			[]string{"detection"},
		),
		SessionConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_session_conflicts_total",
				Help:      "Total number of field events rejected for a stale sequence",
			},
		),
		NormalizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "normalizations_total",
				Help:      "Total number of E.164 normalization tasks, by outcome",
			},
			[]string{"outcome"},
		),
		RequestLatencySecond: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route", "status"},
		),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// FieldEvent counts one applied field event. Safe on a nil receiver.
func (m *Metrics) FieldEvent(event string) {
	if m == nil {
		return
	}
	m.FieldEventsTotal.WithLabelValues(event).Inc()
}

// Commit counts one field commit. Safe on a nil receiver.
func (m *Metrics) Commit(plan string, invalid bool) {
	if m == nil {
		return
	}
	label := "false"
	if invalid {
		label = "true"
	}
	m.CommitsTotal.WithLabelValues(plan, label).Inc()
}

// Format counts one stateless evaluation. Safe on a nil receiver.
func (m *Metrics) Format(detection string) {
	if m == nil {
		return
	}
	m.FormatRequestsTotal.WithLabelValues(detection).Inc()
}

// Conflict counts one rejected stale event. Safe on a nil receiver.
func (m *Metrics) Conflict() {
	if m == nil {
		return
	}
	m.SessionConflicts.Inc()
}

// Normalization counts one normalization outcome. Safe on a nil receiver.
func (m *Metrics) Normalization(outcome string) {
	if m == nil {
		return
	}
	m.NormalizationsTotal.WithLabelValues(outcome).Inc()
}
