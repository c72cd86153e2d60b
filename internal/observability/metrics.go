// Package observability exposes dispatch and poll cycle metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment"

// Metrics is backed by its own registry so tests and multiple engines in
// one process do not collide.
type Metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec

	cycleTotal       *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	cycleFailedItems prometheus.Gauge

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Total number of dispatched items by outcome",
			},
			[]string{"kind", "outcome"},
		),
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent dispatching one item, business logic included",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		cycleTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycle_total",
				Help:      "Total number of poll cycles by status",
			},
			[]string{"status"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of a full poll cycle in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		cycleFailedItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cycle_failed_items",
				Help:      "Number of items that failed in the last poll cycle",
			},
		),
	}

	registry.MustRegister(
		m.dispatchTotal,
		m.dispatchDuration,
		m.cycleTotal,
		m.cycleDuration,
		m.cycleFailedItems,
	)

	return m
}

func (m *Metrics) ObserveDispatch(kind, outcome string, elapsed time.Duration) {
	m.dispatchTotal.WithLabelValues(kind, outcome).Inc()
	m.dispatchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveCycle records a finished cycle. status is "ok" or "failed".
func (m *Metrics) ObserveCycle(status string, elapsed time.Duration, failedItems int) {
	m.cycleTotal.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
	m.cycleFailedItems.Set(float64(failedItems))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
