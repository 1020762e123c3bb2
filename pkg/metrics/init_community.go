package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCommunityMetrics() {
	r.CommunityModularity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atlas_community_modularity",
			Help: "Modularity of the chosen community level",
		},
		[]string{"graph", "attribute"},
	)

	r.CommunityCount = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atlas_community_count",
			Help: "Communities found at the chosen level before merging",
		},
		[]string{"graph", "attribute"},
	)

	r.CommunityBuckets = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atlas_community_buckets",
			Help: "Labels left at the chosen level after small communities were merged",
		},
		[]string{"graph", "attribute"},
	)
}
