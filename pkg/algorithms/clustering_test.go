package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

func TestClusteringCoefficients(t *testing.T) {
	// triangle a-b-c with a pendant d on c
	b := graph.NewBuilder("paw", false)
	b.AddEdge("a", "b", 1)
	b.AddEdge("b", "c", 1)
	b.AddEdge("c", "a", 1)
	b.AddEdge("c", "d", 1)
	g := b.Build()

	got := ClusteringCoefficients(g)
	want := map[string]float64{"a": 1, "b": 1, "c": 1.0 / 3, "d": 0}
	for name, w := range want {
		i, _ := g.Index(name)
		if math.Abs(got[i]-w) > 1e-9 {
			t.Errorf("clustering(%s) = %v, want %v", name, got[i], w)
		}
	}

	if avg := AverageClustering(g); math.Abs(avg-(7.0/3)/4) > 1e-9 {
		t.Errorf("AverageClustering = %v, want %v", avg, (7.0/3)/4)
	}
}

func TestClusteringCoefficients_IgnoresDirection(t *testing.T) {
	b := graph.NewBuilder("cycle", true)
	b.AddEdge("a", "b", 1)
	b.AddEdge("b", "c", 1)
	b.AddEdge("c", "a", 1)

	for i, c := range ClusteringCoefficients(b.Build()) {
		if c != 1 {
			t.Errorf("node %d: expected 1, got %v", i, c)
		}
	}
}

func TestAverageClustering_Empty(t *testing.T) {
	if got := AverageClustering(graph.NewBuilder("empty", false).Build()); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}
