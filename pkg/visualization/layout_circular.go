package visualization

import (
	"math"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// CircularLayout arranges nodes in a circle, in node order
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	applyDefaults(config)
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(g *graph.Graph) (Positions, error) {
	names := g.NodeNames()
	positions := make(Positions, len(names))

	if len(names) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(names) == 1 {
		positions[names[0]] = Position{X: centerX, Y: centerY}
		return positions, nil
	}
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(names))

	for i, name := range names {
		angle := float64(i) * angleStep
		positions[name] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
