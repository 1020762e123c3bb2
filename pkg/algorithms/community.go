package algorithms

import (
	"fmt"
	"math/rand/v2"
	"slices"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
)

// DetectCommunities partitions g with the Louvain method. The dendrogram
// runs from the first merge pass (finest) to the modularity optimum
// (coarsest). Directed graphs are treated as undirected.
//
// The optimisation is stochastic: runs with different seeds may return
// different partitions. A fixed seed on the same graph reproduces the same
// partition and modularity.
func DetectCommunities(g *graph.Graph, opts CommunityOptions) (*CommunityResult, error) {
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	if comps := g.Components(); len(comps) > 1 {
		return nil, disconnected(g, len(comps))
	}
	if opts.Resolution <= 0 {
		opts.Resolution = 1
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultCommunityOptions().Prefix
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("community"), logging.Graph(g.Name()))

	src, seed := communitySource(opts)
	if opts.Source == nil {
		logger.Debug("community seed", logging.Seed(seed))
	}

	ug := g.GonumUndirected(opts.Weighted)
	partitions := louvainLevels(ug, g.NodeCount(), g.EdgeCount(), opts.Resolution, src)

	result := &CommunityResult{
		Resolution: opts.Resolution,
		Seed:       seed,
		Attribute:  baseAttribute(g.Name(), opts),
		nodes:      g.NodeNames(),
	}
	for level, partition := range partitions {
		labels, buckets := relabel(level, partition, opts.OthersThreshold)
		result.Levels = append(result.Levels, CommunityLevel{
			Level:       level,
			Partition:   partition,
			Labels:      labels,
			Modularity:  modularity(ug, g.EdgeCount(), partition, opts.Resolution),
			Communities: countCommunities(partition),
			Buckets:     buckets,
			Attribute:   fmt.Sprintf("%s_L%d", result.Attribute, level),
		})
	}
	result.ChosenIdx = chooseLevel(result.Levels, opts.Level)
	result.Graph = Project(result, g)

	chosen := result.Chosen()
	logger.Info("communities detected",
		logging.Int("levels", len(result.Levels)),
		logging.Int("chosen_level", chosen.Level),
		logging.Int("communities", chosen.Communities),
		logging.Int("buckets", chosen.Buckets),
		logging.Float64("modularity", chosen.Modularity),
		logging.Float64("resolution", opts.Resolution))
	return result, nil
}

func disconnected(g *graph.Graph, components int) error {
	var isolated []string
	for _, name := range g.NodeNames() {
		if g.Degree(name) == 0 {
			isolated = append(isolated, name)
		}
	}
	return &DisconnectedInputError{Graph: g.Name(), Components: components, Isolated: isolated}
}

func communitySource(opts CommunityOptions) (rand.Source, uint64) {
	if opts.Source != nil {
		return opts.Source, opts.Seed
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), seed
}

func baseAttribute(graphName string, opts CommunityOptions) string {
	name := opts.Prefix + "_" + graphName
	if opts.TagResolution {
		name += fmt.Sprintf("_R%.2f", opts.Resolution)
	}
	return name
}

// louvainLevels runs the gonum Louvain implementation and flattens its
// reduced graphs into per-node community indices, finest level first.
// Node IDs of ug are node positions in the source graph.
func louvainLevels(ug gg.Undirected, n, edges int, resolution float64, src rand.Source) [][]int {
	if n == 1 || edges == 0 {
		return [][]int{make([]int, n)}
	}

	// chain runs from the coarsest reduction down to the first pass over
	// the original nodes. The lowest level's parent is a typed nil.
	var chain []community.ReducedGraph
	for r := community.Modularize(ug, resolution, src); ; {
		chain = append(chain, r)
		next, ok := r.Expanded().(*community.ReducedUndirected)
		if !ok || next == nil {
			break
		}
		r = next
	}

	// assignment[i] is the community of node i at the level being built.
	// Members of a level's Structure are indices into the communities of
	// the level below, or node positions at the lowest level.
	assignment := make([]int, n)
	for node := range assignment {
		assignment[node] = node
	}
	levels := make([][]int, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		owner := make(map[int64]int)
		for c, members := range chain[i].Structure() {
			for _, m := range members {
				owner[m.ID()] = c
			}
		}
		next := make([]int, n)
		for node := range next {
			next[node] = owner[int64(assignment[node])]
		}
		assignment = next

		partition := canonicalPartition(assignment)
		// the top reduction ends with no moves and repeats the level below
		if len(levels) > 0 && slices.Equal(levels[len(levels)-1], partition) {
			continue
		}
		levels = append(levels, partition)
	}
	return levels
}

// canonicalPartition renumbers communities in order of first member so
// equal partitions compare equal
func canonicalPartition(assignment []int) []int {
	ids := make(map[int]int)
	out := make([]int, len(assignment))
	for i, c := range assignment {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[i] = id
	}
	return out
}

func countCommunities(partition []int) int {
	highest := -1
	for _, c := range partition {
		if c > highest {
			highest = c
		}
	}
	return highest + 1
}

func modularity(ug gg.Undirected, edges int, partition []int, resolution float64) float64 {
	if edges == 0 {
		return 0
	}
	groups := make([][]gg.Node, countCommunities(partition))
	for node, c := range partition {
		groups[c] = append(groups[c], simple.Node(int64(node)))
	}
	return community.Q(ug, groups, resolution)
}

func chooseLevel(levels []CommunityLevel, want int) int {
	if want >= 0 {
		if want >= len(levels) {
			return len(levels) - 1
		}
		return want
	}
	best := 0
	for i, l := range levels {
		if l.Modularity > levels[best].Modularity {
			best = i
		}
	}
	return best
}

func labelValues(nodes, labels []string) map[string]graph.Value {
	out := make(map[string]graph.Value, len(nodes))
	for i, name := range nodes {
		out[name] = graph.Label(labels[i])
	}
	return out
}
