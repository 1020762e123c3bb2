package algorithms

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/network"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// Metric names a node ranking
type Metric string

const (
	MetricDegree      Metric = "degree"
	MetricInDegree    Metric = "in-degree"
	MetricOutDegree   Metric = "out-degree"
	MetricBetweenness Metric = "betweenness"
	MetricEigenvector Metric = "eigenvector"
	MetricPageRank    Metric = "pagerank"
)

// Metrics lists every supported ranking key
var Metrics = []Metric{
	MetricDegree, MetricInDegree, MetricOutDegree,
	MetricBetweenness, MetricEigenvector, MetricPageRank,
}

// Eigenvector power iteration limits
const (
	eigenvectorMaxIter   = 1000
	eigenvectorTolerance = 1e-6
)

// ErrNoConvergence is returned when eigenvector centrality does not settle
var ErrNoConvergence = errors.New("eigenvector centrality did not converge")

// UnsupportedMetricError is returned for an unknown ranking key, or for a
// directional key on an undirected graph
type UnsupportedMetricError struct {
	Metric string
	Reason string
}

func (e *UnsupportedMetricError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported metric %q: %s", e.Metric, e.Reason)
	}
	return fmt.Sprintf("unsupported metric %q", e.Metric)
}

// ParseMetric validates a ranking key
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", &UnsupportedMetricError{Metric: s}
}

// MostCentral ranks the nodes of g by metric, highest score first. Equal
// scores keep node order. n <= 0 returns every node.
func MostCentral(g *graph.Graph, metric string, n int) ([]RankedNode, error) {
	m, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	scores, err := Scores(g, m)
	if err != nil {
		return nil, err
	}
	return findTopNodes(g, scores, n), nil
}

// Scores computes metric for every node, in node order
func Scores(g *graph.Graph, m Metric) ([]float64, error) {
	if (m == MetricInDegree || m == MetricOutDegree) && !g.Directed() {
		return nil, &UnsupportedMetricError{Metric: string(m), Reason: "graph is undirected"}
	}
	switch m {
	case MetricDegree:
		return degreeScores(g, g.Degree), nil
	case MetricInDegree:
		return degreeScores(g, g.InDegree), nil
	case MetricOutDegree:
		return degreeScores(g, g.OutDegree), nil
	case MetricBetweenness:
		return BetweennessCentrality(g), nil
	case MetricEigenvector:
		return EigenvectorCentrality(g)
	case MetricPageRank:
		return pageRankScores(g), nil
	default:
		return nil, &UnsupportedMetricError{Metric: string(m)}
	}
}

func degreeScores(g *graph.Graph, fn func(string) int) []float64 {
	scores := make([]float64, g.NodeCount())
	for i, name := range g.NodeNames() {
		scores[i] = float64(fn(name))
	}
	return scores
}

// BetweennessCentrality returns normalised betweenness in node order.
// Directed graphs count directed shortest paths. Scores are scaled by
// 1/((n-1)(n-2)) so they fall in [0, 1].
func BetweennessCentrality(g *graph.Graph) []float64 {
	n := g.NodeCount()
	scores := make([]float64, n)
	if n <= 2 {
		return scores
	}

	var raw map[int64]float64
	if g.Directed() {
		raw = network.Betweenness(g.GonumDirected())
	} else {
		raw = network.Betweenness(g.GonumUndirected(false))
	}

	// gonum omits zero scores and sums over ordered pairs
	scale := 1 / float64((n-1)*(n-2))
	for id, score := range raw {
		scores[id] = score * scale
	}
	return scores
}

// EigenvectorCentrality returns unit-length eigenvector centrality in node
// order. A node's score is fed by its predecessors, so on directed graphs
// being linked to by central nodes counts. The iteration runs on A+I,
// which keeps bipartite graphs from oscillating.
func EigenvectorCentrality(g *graph.Graph) ([]float64, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	next := make([]float64, n)

	for iter := 0; iter < eigenvectorMaxIter; iter++ {
		copy(next, x)
		for v := 0; v < n; v++ {
			for _, u := range g.Predecessors(v) {
				next[v] += x[u]
			}
		}

		norm := floats.Norm(next, 2)
		if norm == 0 {
			return next, nil
		}
		floats.Scale(1/norm, next)

		if floats.Distance(next, x, 1) < float64(n)*eigenvectorTolerance {
			copy(x, next)
			for i := range x {
				// -0 and tiny negatives from rounding
				x[i] = math.Abs(x[i])
			}
			return x, nil
		}
		x, next = next, x
	}
	return nil, ErrNoConvergence
}
