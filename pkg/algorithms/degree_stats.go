package algorithms

import (
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// Summary describes one degree distribution. MinNode and MaxNode are the
// first nodes, in node order, attaining Min and Max.
type Summary struct {
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Mode    int     `json:"mode"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	MinNode string  `json:"min_node"`
	MaxNode string  `json:"max_node"`
}

// DegreeStats holds the total degree distribution and, for directed
// graphs, the in- and out-degree distributions
type DegreeStats struct {
	Directed bool     `json:"directed"`
	Degree   Summary  `json:"degree"`
	In       *Summary `json:"in,omitempty"`
	Out      *Summary `json:"out,omitempty"`
	// Clustering is the average local clustering coefficient
	Clustering float64 `json:"average_clustering"`
}

// DegreeStatistics summarises the degree distribution of g. Total degree
// is in+out for directed graphs.
func DegreeStatistics(g *graph.Graph) (*DegreeStats, error) {
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	names := g.NodeNames()
	stats := &DegreeStats{
		Directed:   g.Directed(),
		Degree:     summarize(names, degrees(names, g.Degree)),
		Clustering: AverageClustering(g),
	}
	if g.Directed() {
		in := summarize(names, degrees(names, g.InDegree))
		out := summarize(names, degrees(names, g.OutDegree))
		stats.In, stats.Out = &in, &out
	}
	return stats, nil
}

func degrees(names []string, fn func(string) int) []int {
	out := make([]int, len(names))
	for i, name := range names {
		out[i] = fn(name)
	}
	return out
}

func summarize(names []string, values []int) Summary {
	minIdx, maxIdx := argMin(values), argMax(values)
	return Summary{
		Mean:    stat.Mean(toFloats(values), nil),
		Median:  median(values),
		Mode:    mode(values),
		Min:     values[minIdx],
		Max:     values[maxIdx],
		MinNode: names[minIdx],
		MaxNode: names[maxIdx],
	}
}

type number interface {
	constraints.Integer | constraints.Float
}

func toFloats[T number](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// median averages the two middle values of an even-length sample
func median[T number](xs []T) float64 {
	sorted := append([]T(nil), xs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// mode returns the most frequent value; ties go to the smallest
func mode[T constraints.Ordered](xs []T) T {
	counts := make(map[T]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	var best T
	bestCount := 0
	for x, c := range counts {
		if c > bestCount || (c == bestCount && x < best) {
			best, bestCount = x, c
		}
	}
	return best
}

func argMin[T constraints.Ordered](xs []T) int {
	idx := 0
	for i, x := range xs {
		if x < xs[idx] {
			idx = i
		}
	}
	return idx
}

func argMax[T constraints.Ordered](xs []T) int {
	idx := 0
	for i, x := range xs {
		if x > xs[idx] {
			idx = i
		}
	}
	return idx
}
