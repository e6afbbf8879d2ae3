// Package metrics exposes Prometheus instrumentation for backend
// invocations and match results. All methods are safe on a nil
// receiver so instrumentation stays optional.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	backendAttempts  *prometheus.CounterVec
	backendDuration  *prometheus.HistogramVec
	productsReturned prometheus.Histogram
	fallbacks        prometheus.Counter
}

// New registers the collectors on reg and returns the instrumented set.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		backendAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomatch",
			Name:      "backend_attempts_total",
			Help:      "Backend invocations by backend name and outcome.",
		}, []string{"backend", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gomatch",
			Name:      "backend_duration_seconds",
			Help:      "Wall-clock duration of backend invocations.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"backend"}),
		productsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gomatch",
			Name:      "products_returned",
			Help:      "Number of products in the final ranked result.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gomatch",
			Name:      "fallbacks_total",
			Help:      "Times the secondary backend was invoked after the primary yielded nothing usable.",
		}),
	}
	reg.MustRegister(m.backendAttempts, m.backendDuration, m.productsReturned, m.fallbacks)
	return m
}

// ObserveAttempt records one backend invocation.
func (m *Metrics) ObserveAttempt(backend, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.backendAttempts.WithLabelValues(backend, outcome).Inc()
	m.backendDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// ObserveResult records the size of a finished match result.
func (m *Metrics) ObserveResult(products int) {
	if m == nil {
		return
	}
	m.productsReturned.Observe(float64(products))
}

// ObserveFallback counts a primary-to-secondary handoff.
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}
