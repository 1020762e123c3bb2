package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.PipelineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_pipeline_runs_total",
			Help: "Pipeline runs by outcome",
		},
		[]string{"status"}, // success, error
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"graph", "stage"},
	)

	r.StageErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_pipeline_stage_errors_total",
			Help: "Pipeline stages that failed",
		},
		[]string{"graph", "stage"},
	)

	r.LastRunTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_pipeline_last_run_timestamp_seconds",
			Help: "Unix time the last pipeline run finished",
		},
	)

	r.LastRunDurationSec = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_pipeline_last_run_duration_seconds",
			Help: "Wall-clock duration of the last pipeline run",
		},
	)
}
