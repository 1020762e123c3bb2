package algorithms

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// setupCliqueRing creates k cliques of size m, each joined to the next by a
// single edge so the graph is connected
func setupCliqueRing(t *testing.T, k, m int) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder("cliques", false)
	name := func(c, i int) string { return fmt.Sprintf("c%d_%d", c, i) }
	for c := 0; c < k; c++ {
		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				b.AddEdge(name(c, i), name(c, j), 1)
			}
		}
		b.AddEdge(name(c, 0), name((c+1)%k, 1), 1)
	}
	return b.Build()
}

func seeded(seed uint64) CommunityOptions {
	opts := DefaultCommunityOptions()
	opts.OthersThreshold = 3
	opts.Source = rand.NewPCG(seed, seed)
	return opts
}

func TestDetectCommunities_TwoCliques(t *testing.T) {
	g := setupCliqueRing(t, 2, 5)

	result, err := DetectCommunities(g, seeded(1))
	require.NoError(t, err)

	partition := result.Partition(result.ChosenIdx)
	for i := 1; i < 5; i++ {
		assert.Equal(t, partition["c0_0"], partition[fmt.Sprintf("c0_%d", i)])
		assert.Equal(t, partition["c1_0"], partition[fmt.Sprintf("c1_%d", i)])
	}
	assert.NotEqual(t, partition["c0_0"], partition["c1_0"])
	assert.Greater(t, result.Chosen().Modularity, 0.3)

	// chosen level is also written under the base attribute
	v, ok := result.Graph.NodeAttr("c1_3", "louvain_community_cliques")
	require.True(t, ok)
	assert.True(t, v.Equal(graph.Label(partition["c1_3"])))

	for _, l := range result.Levels {
		_, ok := result.Graph.NodeAttr("c0_0", l.Attribute)
		assert.True(t, ok, "missing level attribute %s", l.Attribute)
	}
	_, ok = g.NodeAttr("c0_0", "louvain_community_cliques")
	assert.False(t, ok, "input graph must not change")
}

func TestDetectCommunities_SeedDeterminism(t *testing.T) {
	g := setupCliqueRing(t, 6, 4)

	first, err := DetectCommunities(g, seeded(42))
	require.NoError(t, err)
	second, err := DetectCommunities(g, seeded(42))
	require.NoError(t, err)

	require.Equal(t, len(first.Levels), len(second.Levels))
	for i := range first.Levels {
		assert.InDelta(t, first.Levels[i].Modularity, second.Levels[i].Modularity, 1e-12)
	}
	assert.Equal(t, first.Dendrogram(), second.Dendrogram())
}

func TestDetectCommunities_DendrogramCoarsens(t *testing.T) {
	g := setupCliqueRing(t, 8, 4)

	result, err := DetectCommunities(g, seeded(7))
	require.NoError(t, err)

	levels := result.Levels
	require.NotEmpty(t, levels)
	for i := 1; i < len(levels); i++ {
		assert.LessOrEqual(t, levels[i].Communities, levels[i-1].Communities)
	}
	for i, l := range levels {
		assert.Equal(t, i, l.Level)
		assert.Len(t, l.Partition, g.NodeCount())
	}
}

func TestDetectCommunities_FirstLevelIsFirstPass(t *testing.T) {
	g := setupCliqueRing(t, 16, 4)

	result, err := DetectCommunities(g, seeded(1))
	require.NoError(t, err)

	// the first pass groups each clique; later passes merge cliques
	require.GreaterOrEqual(t, len(result.Levels), 2)
	first := result.Levels[0]
	assert.Equal(t, 16, first.Communities)
	partition := result.Partition(0)
	for c := 0; c < 16; c++ {
		for i := 1; i < 4; i++ {
			assert.Equal(t, partition[fmt.Sprintf("c%d_0", c)], partition[fmt.Sprintf("c%d_%d", c, i)])
		}
	}

	last := result.Levels[len(result.Levels)-1]
	assert.Less(t, last.Communities, first.Communities)
	assert.Greater(t, last.Modularity, first.Modularity)

	for i := 1; i < len(result.Levels); i++ {
		assert.NotEqual(t, result.Levels[i-1].Partition, result.Levels[i].Partition,
			"level %d repeats level %d", i, i-1)
	}
}

func TestDetectCommunities_DrawsSeed(t *testing.T) {
	g := setupCliqueRing(t, 3, 4)
	opts := DefaultCommunityOptions()

	result, err := DetectCommunities(g, opts)
	require.NoError(t, err)
	assert.NotZero(t, result.Seed)

	// replaying the reported seed reproduces the run
	opts.Seed = result.Seed
	replay, err := DetectCommunities(g, opts)
	require.NoError(t, err)
	assert.Equal(t, result.Dendrogram(), replay.Dendrogram())
}

func TestDetectCommunities_Disconnected(t *testing.T) {
	b := graph.NewBuilder("split", false)
	b.AddEdge("a", "b", 1)
	b.AddEdge("c", "d", 1)
	b.EnsureNode("lonely")

	_, err := DetectCommunities(b.Build(), DefaultCommunityOptions())

	var disconnected *DisconnectedInputError
	require.True(t, errors.As(err, &disconnected), "expected DisconnectedInputError, got %v", err)
	assert.Equal(t, 3, disconnected.Components)
	assert.Equal(t, []string{"lonely"}, disconnected.Isolated)
}

func TestDetectCommunities_EmptyGraph(t *testing.T) {
	_, err := DetectCommunities(graph.NewBuilder("empty", false).Build(), DefaultCommunityOptions())
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestDetectCommunities_SingleNode(t *testing.T) {
	b := graph.NewBuilder("one", false)
	b.EnsureNode("only")

	result, err := DetectCommunities(b.Build(), seeded(1))
	require.NoError(t, err)
	require.Len(t, result.Levels, 1)
	assert.Equal(t, 0.0, result.Chosen().Modularity)
}

func TestDetectCommunities_AttributeNames(t *testing.T) {
	g := setupCliqueRing(t, 2, 4)
	opts := seeded(3)
	opts.TagResolution = true
	opts.Level = 0

	result, err := DetectCommunities(g, opts)
	require.NoError(t, err)

	assert.Equal(t, "louvain_community_cliques_R1.00", result.Attribute)
	assert.Equal(t, "louvain_community_cliques_R1.00_L0", result.Levels[0].Attribute)
	assert.Equal(t, 0, result.ChosenIdx)
}

func TestRelabel(t *testing.T) {
	labels, buckets := relabel(1, []int{0, 0, 0, 1, 1, 2}, 2)

	assert.Equal(t, []string{"L1-0", "L1-0", "L1-0", "L1-1", "L1-1", "L1-Other"}, labels)
	assert.Equal(t, 3, buckets)

	// equal sizes rank by earliest member
	labels, _ = relabel(0, []int{1, 0, 1, 0}, 0)
	assert.Equal(t, []string{"L0-0", "L0-1", "L0-0", "L0-1"}, labels)
}

func TestDetectJointCommunities(t *testing.T) {
	a := setupCliqueRing(t, 2, 4).WithName("wiki")

	b := graph.NewBuilder("reddit", false)
	b.AddEdge("c0_0", "c0_1", 1)
	b.AddEdge("c0_1", "water", 1)
	b.AddEdge("water", "c1_2", 1)
	bg := b.Build()

	optsA, optsB := seeded(5), seeded(6)
	optsA.OthersThreshold, optsB.OthersThreshold = 1, 1

	joint, err := DetectJointCommunities(a, bg, optsA, optsB)
	require.NoError(t, err)

	wikiAttr := joint.A.Attribute
	redditAttr := joint.B.Attribute
	assert.Equal(t, "louvain_community_wiki", wikiAttr)
	assert.Equal(t, "louvain_community_reddit", redditAttr)

	// reddit graph carries the wiki family
	got, ok := joint.B.Graph.NodeAttr("c0_0", wikiAttr)
	require.True(t, ok)
	want := joint.A.Partition(joint.A.ChosenIdx)["c0_0"]
	assert.True(t, got.Equal(graph.Label(want)))

	water, _ := joint.B.Graph.NodeAttr("water", wikiAttr)
	assert.True(t, water.Equal(graph.Label(otherLabel(joint.A.Chosen().Level))))

	// and the wiki graph carries the reddit family
	_, ok = joint.A.Graph.NodeAttr("c0_0", redditAttr)
	assert.True(t, ok)

	overlap := Overlap(joint.A, bg)
	total := 0
	for _, n := range overlap {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestOthersMergingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("no community below threshold keeps its own label", prop.ForAll(
		func(raw []int, threshold int) bool {
			partition := canonicalPartition(raw)
			labels, _ := relabel(0, partition, threshold)

			size := make(map[int]int)
			for _, c := range partition {
				size[c]++
			}
			for node, c := range partition {
				if size[c] < threshold && labels[node] != otherLabel(0) {
					return false
				}
				if size[c] >= threshold && labels[node] == otherLabel(0) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 6)),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
