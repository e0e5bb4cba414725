// Package metrics exposes lifecycle counters and the active-orders gauge to
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderentry"

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	activeOrders prometheus.Gauge
}

// New registers the lifecycle counter, the active orders gauge and the Go
// runtime collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_transitions_total",
			Help:      "Lifecycle transitions by name and outcome.",
		}, []string{"transition", "outcome"}),
		activeOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_orders",
			Help:      "Orders in effect at the last refresh.",
		}),
	}

	m.registry.MustRegister(
		m.transitions,
		m.activeOrders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordTransition implements lifecycle.TransitionRecorder.
func (m *Metrics) RecordTransition(transition, outcome string) {
	m.transitions.WithLabelValues(transition, outcome).Inc()
}

// SetActiveOrders sets the active orders gauge.
func (m *Metrics) SetActiveOrders(count int64) {
	m.activeOrders.Set(float64(count))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
