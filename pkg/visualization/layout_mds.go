package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// MDSLayout places nodes by classical multidimensional scaling of their
// shortest-path distances. Edge weights are ignored.
type MDSLayout struct {
	config *LayoutConfig
}

// NewMDSLayout creates a new MDS layout
func NewMDSLayout(config *LayoutConfig) *MDSLayout {
	applyDefaults(config)
	return &MDSLayout{config: config}
}

// ComputeLayout embeds the hop-distance matrix in two dimensions. Pairs in
// different components are treated as n hops apart.
func (ml *MDSLayout) ComputeLayout(g *graph.Graph) (Positions, error) {
	names := g.NodeNames()
	n := len(names)
	if n == 0 {
		return make(Positions), nil
	}
	if n == 1 {
		return Positions{
			names[0]: {X: ml.config.Width / 2, Y: ml.config.Height / 2},
		}, nil
	}

	ug := g.GonumUndirected(false)
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		shortest := path.DijkstraFrom(simple.Node(i), ug)
		for j := i + 1; j < n; j++ {
			d := shortest.WeightTo(int64(j))
			if math.IsInf(d, 1) {
				d = float64(n)
			}
			dist.SetSym(i, j, d)
		}
	}

	var coords mat.Dense
	// k is the number of positive eigenvalues; 0 means the decomposition failed
	k, _ := mds.TorgersonScaling(&coords, nil, dist)
	if k == 0 {
		return nil, fmt.Errorf("%w: scaling of %s did not converge", ErrLayoutFailed, g.Name())
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = coords.At(i, 0)
		if k > 1 {
			ys[i] = coords.At(i, 1)
		}
	}

	xs, ys = normalizePositions(xs, ys, ml.config.Width, ml.config.Height, ml.config.Padding)
	return toPositions(names, xs, ys), nil
}
