package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Every recorder is safe to call on a nil *Registry so that components can
// take metrics as an optional dependency.

// RecordIngest records the acceptance counters of one graph build
func (r *Registry) RecordIngest(graph string, accepted int, rejected map[string]int, aliasMisses, droppedEdges int) {
	if r == nil {
		return
	}
	r.RecordsAcceptedTotal.WithLabelValues(graph).Add(float64(accepted))
	for reason, n := range rejected {
		r.RecordsRejectedTotal.WithLabelValues(graph, reason).Add(float64(n))
	}
	r.AliasMissesTotal.WithLabelValues(graph).Add(float64(aliasMisses))
	r.DroppedEdgesTotal.WithLabelValues(graph).Add(float64(droppedEdges))
}

// RecordGraphSize sets the node and edge gauges for a graph after a stage
func (r *Registry) RecordGraphSize(graph, stage string, nodes, edges int) {
	if r == nil {
		return
	}
	r.GraphNodes.WithLabelValues(graph, stage).Set(float64(nodes))
	r.GraphEdges.WithLabelValues(graph, stage).Set(float64(edges))
}

// RecordStage records a pipeline stage with its duration
func (r *Registry) RecordStage(graph, stage string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.StageDuration.WithLabelValues(graph, stage).Observe(duration.Seconds())
	if err != nil {
		r.StageErrorsTotal.WithLabelValues(graph, stage).Inc()
	}
}

// RecordRun records the outcome of a whole pipeline run
func (r *Registry) RecordRun(duration time.Duration, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
	r.LastRunTimestamp.SetToCurrentTime()
	r.LastRunDurationSec.Set(duration.Seconds())
}

// RecordCommunities records the chosen level of a community run
func (r *Registry) RecordCommunities(graph, attribute string, modularity float64, communities, buckets int) {
	if r == nil {
		return
	}
	r.CommunityModularity.WithLabelValues(graph, attribute).Set(modularity)
	r.CommunityCount.WithLabelValues(graph, attribute).Set(float64(communities))
	r.CommunityBuckets.WithLabelValues(graph, attribute).Set(float64(buckets))
}

// RecordLayoutCache counts a layout cache outcome
func (r *Registry) RecordLayoutCache(graph, outcome string) {
	if r == nil {
		return
	}
	r.LayoutCacheTotal.WithLabelValues(graph, outcome).Inc()
}

// RecordLayout records the time spent computing a layout
func (r *Registry) RecordLayout(graph, algorithm string, duration time.Duration) {
	if r == nil {
		return
	}
	r.LayoutDuration.WithLabelValues(graph, algorithm).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}

// WriteTextfile refreshes the system gauges and writes every metric to path
// in the Prometheus text format, for pickup by a node exporter textfile
// collector after a batch run. Missing parent directories are created.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
