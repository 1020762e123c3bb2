package visualization

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps node names to coordinates
type Positions map[string]Position

// Algorithm names a layout implementation
type Algorithm string

const (
	AlgorithmForce        Algorithm = "force"
	AlgorithmCircular     Algorithm = "circular"
	AlgorithmHierarchical Algorithm = "hierarchical"
	AlgorithmMDS          Algorithm = "mds"
)

// ErrLayoutFailed is returned when a layout cannot place the nodes
var ErrLayoutFailed = errors.New("layout failed")

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64   `yaml:"width" json:"width" validate:"gt=0"`
	Height     float64   `yaml:"height" json:"height" validate:"gt=0"`
	Iterations int       `yaml:"iterations" json:"iterations" validate:"gte=0"`
	Padding    float64   `yaml:"padding" json:"padding" validate:"gte=0"`
	Seed       uint64    `yaml:"seed" json:"seed"`
	Weighted   bool      `yaml:"weighted" json:"weighted"`
	Algorithm  Algorithm `yaml:"algorithm" json:"algorithm" validate:"omitempty,oneof=force circular hierarchical mds"`
}

// DefaultLayoutConfig returns a 1000x1000 seeded force-directed layout
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:      1000,
		Height:     1000,
		Iterations: 300,
		Padding:    50,
		Seed:       1,
		Algorithm:  AlgorithmForce,
	}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Graph) (Positions, error)
}

// NewLayout builds the layout named by config.Algorithm
func NewLayout(config LayoutConfig) (Layout, error) {
	switch config.Algorithm {
	case "", AlgorithmForce:
		return NewForceDirectedLayout(&config), nil
	case AlgorithmCircular:
		return NewCircularLayout(&config), nil
	case AlgorithmHierarchical:
		return NewHierarchicalLayout(&config), nil
	case AlgorithmMDS:
		return NewMDSLayout(&config), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", config.Algorithm)
	}
}
