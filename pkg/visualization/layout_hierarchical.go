package visualization

import "github.com/dd0wney/cluso-atlas/pkg/graph"

// HierarchicalLayout arranges nodes in BFS levels from the graph's roots
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	applyDefaults(config)
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically. Roots are the nodes without
// incoming links; undirected graphs start from their first node.
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph) (Positions, error) {
	n := g.NodeCount()
	positions := make(Positions, n)

	if n == 0 {
		return positions, nil
	}

	next := g.Successors
	roots := make([]int, 0)
	if g.Directed() {
		for i := 0; i < n; i++ {
			if len(g.Predecessors(i)) == 0 {
				roots = append(roots, i)
			}
		}
	} else {
		next = g.Neighbors
	}

	if len(roots) == 0 {
		// No clear root, use first node
		roots = []int{0}
	}

	// Build levels using BFS
	levels := make([][]int, 0)
	visited := make([]bool, n)
	for _, r := range roots {
		visited[r] = true
	}
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]int, 0)

		for _, u := range currentLevel {
			for _, v := range next(u) {
				if !visited[v] {
					visited[v] = true
					nextLevel = append(nextLevel, v)
				}
			}
		}

		currentLevel = nextLevel
	}

	// Add unvisited nodes to last level
	for i := 0; i < n; i++ {
		if !visited[i] {
			levels[len(levels)-1] = append(levels[len(levels)-1], i)
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		levelWidth := hl.config.Width - 2*hl.config.Padding
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, u := range level {
			x := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[g.NameAt(u)] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}
