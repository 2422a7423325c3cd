// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for draws.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/angelito/draw"
)

const (
	PathShuffle  = "shuffle"
	PathFallback = "fallback"
)

// DrawMetrics counts draws by the path that produced them.
type DrawMetrics struct {
	registry *prometheus.Registry
	draws    *prometheus.CounterVec
	attempts prometheus.Histogram
	rejected prometheus.Counter
}

// NewDrawMetrics registers the draw collectors on a fresh registry.
func NewDrawMetrics() *DrawMetrics {
	m := &DrawMetrics{
		registry: prometheus.NewRegistry(),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angelito",
			Name:      "draws_total",
			Help:      "Completed draws by generator path.",
		}, []string{"path"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "angelito",
			Name:      "draw_attempts",
			Help:      "Shuffle attempts used per draw.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, draw.MaxAttempts},
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "angelito",
			Name:      "draw_rejected_total",
			Help:      "Draw requests refused for invalid member lists.",
		}),
	}

	m.registry.MustRegister(m.draws, m.attempts, m.rejected)

	// Pre-create both label values so they are exported at zero.
	m.draws.WithLabelValues(PathShuffle)
	m.draws.WithLabelValues(PathFallback)

	return m
}

// ObserveDraw records a completed draw.
func (m *DrawMetrics) ObserveDraw(outcome draw.Outcome) {
	path := PathShuffle
	if outcome.Fallback {
		path = PathFallback
	}
	m.draws.WithLabelValues(path).Inc()
	m.attempts.Observe(float64(outcome.Attempts))
}

func (m *DrawMetrics) ObserveRejected() {
	m.rejected.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *DrawMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
