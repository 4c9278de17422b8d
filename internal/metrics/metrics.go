// Package metrics exposes Prometheus collectors for assessment activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	sessions *prometheus.CounterVec
	answers  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	active   prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		sessions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attestiz_sessions_total",
				Help: "Assessment sessions by lifecycle event",
			},
			[]string{"event", "role"}, // event: started/completed/abandoned
		),
		answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attestiz_answers_total",
				Help: "Finalized answers by block and correctness",
			},
			[]string{"block", "correct"},
		),
		rejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attestiz_rejected_interactions_total",
				Help: "Interactions rejected by the session engine",
			},
			[]string{"reason"},
		),
		active: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "attestiz_active_sessions",
				Help: "Sessions currently in progress",
			},
		),
	}
}

// SessionStarted counts a new session for role.
func (m *Metrics) SessionStarted(role string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues("started", role).Inc()
}

// SessionCompleted counts a session that reached its final report.
func (m *Metrics) SessionCompleted(role string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues("completed", role).Inc()
}

// SessionAbandoned counts a session discarded before the end.
func (m *Metrics) SessionAbandoned(role string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues("abandoned", role).Inc()
}

// Answer counts a finalized answer in block by correctness.
func (m *Metrics) Answer(block int, correct bool) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(strconv.Itoa(block), strconv.FormatBool(correct)).Inc()
}

// Rejected counts an interaction the engine refused, e.g. "stale".
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// SetActive reports the number of sessions in progress.
func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
