package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.RecordsAcceptedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_ingest_records_accepted_total",
			Help: "Records that contributed to a graph",
		},
		[]string{"graph"},
	)

	r.RecordsRejectedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_ingest_records_rejected_total",
			Help: "Records dropped by an acceptance filter",
		},
		[]string{"graph", "reason"}, // too_short, too_many_entities, no_mentions
	)

	r.AliasMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_ingest_alias_misses_total",
			Help: "Mentions or references that did not resolve to a canonical entity",
		},
		[]string{"graph"},
	)

	r.DroppedEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_ingest_dropped_edges_total",
			Help: "Edges removed for falling below the occurrence threshold",
		},
		[]string{"graph"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atlas_graph_nodes",
			Help: "Number of nodes in the graph after the last stage",
		},
		[]string{"graph", "stage"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atlas_graph_edges",
			Help: "Number of edges in the graph after the last stage",
		},
		[]string{"graph", "stage"},
	)
}
