// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quotebuilder"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// which keeps library code and tests free of registry plumbing.
type Metrics struct {
	storageOps       *prometheus.CounterVec
	storageFallbacks *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		storageOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Document storage operations by backend, operation and outcome.",
		}, []string{"backend", "op", "outcome"}),
		storageFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "fallbacks_total",
			Help:      "Remote storage failures served by the local store.",
		}, []string{"op"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "active_sessions",
			Help:      "Editing sessions currently held in memory.",
		}),
	}
}

// ObserveStorage counts one storage call
func (m *Metrics) ObserveStorage(backend, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storageOps.WithLabelValues(backend, op, outcome).Inc()
}

// Fallback counts a remote failure that was served locally
func (m *Metrics) Fallback(op string) {
	if m == nil {
		return
	}
	m.storageFallbacks.WithLabelValues(op).Inc()
}

// SessionOpened and SessionClosed track the editor session registry
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
