package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutCacheTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_layout_cache_total",
			Help: "Layout cache lookups and writes by outcome",
		},
		[]string{"graph", "outcome"}, // hit, miss, stale, error, stored
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_layout_duration_seconds",
			Help:    "Time spent computing layouts in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 120},
		},
		[]string{"graph", "algorithm"},
	)
}
