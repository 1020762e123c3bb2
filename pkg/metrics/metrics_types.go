package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Ingest Metrics
	RecordsAcceptedTotal *prometheus.CounterVec
	RecordsRejectedTotal *prometheus.CounterVec
	AliasMissesTotal     *prometheus.CounterVec
	DroppedEdgesTotal    *prometheus.CounterVec

	// Graph Metrics
	GraphNodes *prometheus.GaugeVec
	GraphEdges *prometheus.GaugeVec

	// Pipeline Metrics
	PipelineRunsTotal  *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	StageErrorsTotal   *prometheus.CounterVec
	LastRunTimestamp   prometheus.Gauge
	LastRunDurationSec prometheus.Gauge

	// Community Metrics
	CommunityModularity *prometheus.GaugeVec
	CommunityCount      *prometheus.GaugeVec
	CommunityBuckets    *prometheus.GaugeVec

	// Layout Metrics
	LayoutCacheTotal *prometheus.CounterVec
	LayoutDuration   *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	r.initIngestMetrics()
	r.initPipelineMetrics()
	r.initCommunityMetrics()
	r.initLayoutMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
