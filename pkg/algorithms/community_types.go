package algorithms

import (
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
)

// ErrEmptyGraph is returned when an algorithm needs at least one node
var ErrEmptyGraph = graph.ErrEmptyGraph

// DisconnectedInputError is returned by community detection when the graph
// is not a single connected component. Callers reduce the graph to its
// largest component first.
type DisconnectedInputError struct {
	Graph      string
	Components int
	// Isolated lists nodes with no incident edge
	Isolated []string
}

func (e *DisconnectedInputError) Error() string {
	return fmt.Sprintf("community detection on %q needs one connected component, got %d (%d isolated nodes)",
		e.Graph, e.Components, len(e.Isolated))
}

// CommunityOptions configures DetectCommunities
type CommunityOptions struct {
	// Resolution above 1 favours more, smaller communities
	Resolution float64
	// Communities with fewer members merge into the level's Other bucket
	OthersThreshold int
	// Weighted uses edge weights instead of counting every edge once
	Weighted bool

	// Source drives the optimisation. When nil, Seed seeds a PCG source;
	// when Seed is also zero a fresh seed is drawn and reported.
	Source rand.Source
	Seed   uint64

	// Prefix starts every attribute name written back to the graph
	Prefix string
	// TagResolution adds _R<resolution> to attribute names so runs at
	// different resolutions can sit on the same graph
	TagResolution bool
	// Level selects the chosen partition; negative picks the level with
	// the highest modularity
	Level int

	Logger logging.Logger
}

// DefaultCommunityOptions returns options for a single unweighted run at
// resolution 1
func DefaultCommunityOptions() CommunityOptions {
	return CommunityOptions{
		Resolution:      1.0,
		OthersThreshold: 8,
		Prefix:          "louvain_community",
		Level:           -1,
	}
}

// CommunityLevel is one cut of the dendrogram
type CommunityLevel struct {
	Level int
	// Partition holds the raw community of every node, in node order
	Partition []int
	// Labels holds the human-readable bucket of every node, in node order
	Labels      []string
	Modularity  float64
	Communities int
	// Buckets counts the labels left after merging small communities
	Buckets   int
	Attribute string
}

// CommunityResult is the outcome of one detection run
type CommunityResult struct {
	// Graph is the input snapshot with one attribute per level plus the
	// chosen level under the base attribute name
	Graph      *graph.Graph
	Levels     []CommunityLevel
	ChosenIdx  int
	Resolution float64
	// Seed is the seed used when the run drew or was given one; zero when
	// the caller supplied a Source
	Seed      uint64
	Attribute string

	nodes []string
}

// Dendrogram returns the raw partitions from finest to coarsest
func (r *CommunityResult) Dendrogram() [][]int {
	out := make([][]int, len(r.Levels))
	for i, l := range r.Levels {
		out[i] = append([]int(nil), l.Partition...)
	}
	return out
}

// Chosen returns the level written under the base attribute name
func (r *CommunityResult) Chosen() CommunityLevel {
	return r.Levels[r.ChosenIdx]
}

// Partition returns node -> bucket label at a level
func (r *CommunityResult) Partition(level int) map[string]string {
	out := make(map[string]string, len(r.nodes))
	for i, name := range r.nodes {
		out[name] = r.Levels[level].Labels[i]
	}
	return out
}

// Nodes returns node identities in the order partitions are indexed by
func (r *CommunityResult) Nodes() []string {
	return append([]string(nil), r.nodes...)
}
