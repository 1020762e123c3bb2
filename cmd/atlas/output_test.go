package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/pipeline"
)

func TestRankedList(t *testing.T) {
	nodes := []algorithms.RankedNode{
		{Node: "caffeine", Score: 6},
		{Node: "nicotine", Score: 4},
		{Node: "alcohol", Score: 3.5},
	}
	assert.Equal(t, "caffeine (6), nicotine (4)", rankedList(nodes, 2))
	assert.Equal(t, "caffeine (6), nicotine (4), alcohol (3.5)", rankedList(nodes, 10))
	assert.Empty(t, rankedList(nil, 3))
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"pagerank": 1, "betweenness": 2, "degree": 3}
	assert.Equal(t, []string{"betweenness", "degree", "pagerank"}, sortedKeys(m))
}

func TestRenderGraph(t *testing.T) {
	out := renderGraph(&pipeline.GraphReport{
		Name:       "wiki",
		BuiltNodes: 9,
		BuiltEdges: 14,
		Nodes:      8,
		Edges:      13,
		Communities: []pipeline.CommunitySummary{
			{Attribute: "louvain_community_wiki", Buckets: 2, Modularity: 0.35, Level: 1, Levels: 2, Seed: 7},
		},
		Central: map[string][]algorithms.RankedNode{
			"degree": {{Node: "caffeine", Score: 4}},
		},
	})

	for _, want := range []string{"wiki", "8 (built 9)", "13 (built 14)", "louvain_community_wiki: 2 buckets", "caffeine (4)"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}
