package algorithms

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// setupStar creates an undirected star with hub h and leaves l1..l4
func setupStar(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder("star", false)
	for i := 1; i <= 4; i++ {
		b.AddEdge("h", fmt.Sprintf("l%d", i), 1)
	}
	return b.Build()
}

func TestMostCentral_DegreeStableTies(t *testing.T) {
	ranked, err := MostCentral(setupStar(t), "degree", 0)
	if err != nil {
		t.Fatalf("MostCentral failed: %v", err)
	}

	want := []string{"h", "l1", "l2", "l3", "l4"}
	if len(ranked) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(ranked))
	}
	for i, name := range want {
		if ranked[i].Node != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, ranked[i].Node)
		}
	}
	if ranked[0].Score != 4 {
		t.Errorf("Expected hub degree 4, got %f", ranked[0].Score)
	}
}

func TestMostCentral_TopN(t *testing.T) {
	ranked, err := MostCentral(setupStar(t), "degree", 2)
	if err != nil {
		t.Fatalf("MostCentral failed: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Node != "h" || ranked[1].Node != "l1" {
		t.Errorf("Unexpected top 2: %+v", ranked)
	}
}

func TestMostCentral_Directional(t *testing.T) {
	g := setupChain(t)

	ranked, err := MostCentral(g, "in-degree", 0)
	if err != nil {
		t.Fatalf("MostCentral failed: %v", err)
	}
	if ranked[0].Node != "b" || ranked[len(ranked)-1].Node != "a" {
		t.Errorf("Unexpected in-degree ranking %+v", ranked)
	}

	ranked, err = MostCentral(g, "out-degree", 0)
	if err != nil {
		t.Fatalf("MostCentral failed: %v", err)
	}
	if ranked[0].Node != "a" || ranked[len(ranked)-1].Node != "e" {
		t.Errorf("Unexpected out-degree ranking %+v", ranked)
	}
}

func TestMostCentral_UnsupportedMetric(t *testing.T) {
	tests := []struct {
		name   string
		g      *graph.Graph
		metric string
	}{
		{"unknown key", setupStar(t), "closeness"},
		{"in-degree on undirected", setupStar(t), "in-degree"},
		{"out-degree on undirected", setupStar(t), "out-degree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MostCentral(tt.g, tt.metric, 0)
			var unsupported *UnsupportedMetricError
			if !errors.As(err, &unsupported) {
				t.Fatalf("Expected UnsupportedMetricError, got %v", err)
			}
			if unsupported.Metric != tt.metric {
				t.Errorf("Expected metric %q in error, got %q", tt.metric, unsupported.Metric)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric(" Betweenness "); err != nil || m != MetricBetweenness {
		t.Errorf("ParseMetric = %v, %v", m, err)
	}
}

func TestBetweennessCentrality(t *testing.T) {
	star := BetweennessCentrality(setupStar(t))
	if math.Abs(star[0]-1) > 1e-9 {
		t.Errorf("Expected hub betweenness 1, got %f", star[0])
	}
	for i := 1; i < len(star); i++ {
		if star[i] != 0 {
			t.Errorf("Expected leaf betweenness 0, got %f", star[i])
		}
	}

	// directed chain a->b->c->d->e
	chain := BetweennessCentrality(setupChain(t))
	want := []float64{0, 3.0 / 12, 4.0 / 12, 3.0 / 12, 0}
	for i := range want {
		if math.Abs(chain[i]-want[i]) > 1e-9 {
			t.Errorf("Node %d: expected %f, got %f", i, want[i], chain[i])
		}
	}
}

func TestEigenvectorCentrality(t *testing.T) {
	scores, err := EigenvectorCentrality(setupStar(t))
	if err != nil {
		t.Fatalf("EigenvectorCentrality failed: %v", err)
	}
	for i := 1; i < len(scores); i++ {
		if scores[0] <= scores[i] {
			t.Errorf("Hub should outrank leaf %d: %f <= %f", i, scores[0], scores[i])
		}
	}

	b := graph.NewBuilder("complete", false)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			b.AddEdge(fmt.Sprintf("k%d", i), fmt.Sprintf("k%d", j), 1)
		}
	}
	scores, err = EigenvectorCentrality(b.Build())
	if err != nil {
		t.Fatalf("EigenvectorCentrality failed: %v", err)
	}
	for _, s := range scores {
		if math.Abs(s-0.5) > 1e-6 {
			t.Errorf("Expected 1/sqrt(4) for every node of K4, got %f", s)
		}
	}
}

func TestPageRankRanking(t *testing.T) {
	ranked, err := MostCentral(setupStar(t), "pagerank", 1)
	if err != nil {
		t.Fatalf("MostCentral failed: %v", err)
	}
	if ranked[0].Node != "h" {
		t.Errorf("Expected hub first, got %s", ranked[0].Node)
	}
}

func TestRankingOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("degree ranking is non-increasing with stable ties", prop.ForAll(
		func(endpoints []int, n int) bool {
			b := graph.NewBuilder("random", false)
			for i := 0; i+1 < len(endpoints); i += 2 {
				b.AddEdge(fmt.Sprintf("n%d", endpoints[i]), fmt.Sprintf("n%d", endpoints[i+1]), 1)
			}
			g := b.Build()

			ranked, err := MostCentral(g, "degree", n)
			if err != nil {
				return false
			}
			for i := 1; i < len(ranked); i++ {
				prev, cur := ranked[i-1], ranked[i]
				if cur.Score > prev.Score {
					return false
				}
				if cur.Score == prev.Score && cur.Index < prev.Index {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 12)),
		gen.IntRange(0, 15),
	))

	properties.TestingRun(t)
}
