package algorithms

import (
	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// ClusteringCoefficients returns the local clustering coefficient of every
// node in node order: the share of neighbour pairs that are themselves
// adjacent. Direction is ignored and self-loops do not count. Nodes with
// fewer than two neighbours score 0.
func ClusteringCoefficients(g *graph.Graph) []float64 {
	n := g.NodeCount()
	coefficients := make([]float64, n)

	// Pre-build neighbour sets so each pair check is O(1)
	sets := make([]map[int]bool, n)
	for i := 0; i < n; i++ {
		set := make(map[int]bool)
		for _, j := range g.Neighbors(i) {
			if j != i {
				set[j] = true
			}
		}
		sets[i] = set
	}

	for i := 0; i < n; i++ {
		neighbors := make([]int, 0, len(sets[i]))
		for _, j := range g.Neighbors(i) {
			if j != i {
				neighbors = append(neighbors, j)
			}
		}
		k := len(neighbors)
		if k < 2 {
			continue
		}

		triangles := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if sets[neighbors[a]][neighbors[b]] {
					triangles++
				}
			}
		}
		coefficients[i] = float64(triangles) / float64(k*(k-1)/2)
	}
	return coefficients
}

// AverageClustering is the mean local clustering coefficient, 0 for an
// empty graph
func AverageClustering(g *graph.Graph) float64 {
	coefficients := ClusteringCoefficients(g)
	if len(coefficients) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coefficients {
		sum += c
	}
	return sum / float64(len(coefficients))
}
