package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// golden-ratio increment used to derive the second PCG word from the seed
const seedMix = 0x9e3779b97f4a7c15

// ForceDirectedLayout implements Fruchterman-Reingold: every pair of nodes
// repels, every edge pulls its endpoints together, and the maximum step
// shrinks linearly to zero over the iterations.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	applyDefaults(config)
	return &ForceDirectedLayout{config: config}
}

type spring struct {
	u, v   int
	weight float64
}

// springs returns one spring per edge. With Weighted set, the pull is
// proportional to the edge weight relative to the mean weight.
func (fdl *ForceDirectedLayout) springs(g *graph.Graph) []spring {
	edges := g.Edges()
	out := make([]spring, 0, len(edges))
	total := 0.0
	for _, e := range edges {
		u, _ := g.Index(e.Source)
		v, _ := g.Index(e.Target)
		out = append(out, spring{u: u, v: v, weight: e.Weight})
		total += e.Weight
	}
	mean := total / float64(len(out))
	for i := range out {
		if fdl.config.Weighted && mean > 0 {
			out[i].weight /= mean
		} else {
			out[i].weight = 1
		}
	}
	return out
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) (Positions, error) {
	names := g.NodeNames()
	n := len(names)
	if n == 0 {
		return make(Positions), nil
	}

	// Single node - center it
	if n == 1 {
		return Positions{
			names[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}, nil
	}

	cfg := fdl.config
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^seedMix))

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding
		ys[i] = rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding
	}

	springs := fdl.springs(g)

	// Optimal distance
	k := math.Sqrt((cfg.Width * cfg.Height) / float64(n))
	temperature := cfg.Width / 10.0

	fx := make([]float64, n)
	fy := make([]float64, n)

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range fx {
			fx[i], fy[i] = 0, 0
		}

		// Repulsion between all nodes
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := xs[i] - xs[j]
				dy := ys[i] - ys[j]
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					// coincident nodes get pushed apart along a random axis
					angle := rng.Float64() * 2 * math.Pi
					dx, dy, dist = 0.01*math.Cos(angle), 0.01*math.Sin(angle), 0.01
				}

				force := (k * k) / dist
				px := (dx / dist) * force
				py := (dy / dist) * force
				fx[i] += px
				fy[i] += py
				fx[j] -= px
				fy[j] -= py
			}
		}

		// Attraction along edges
		for _, s := range springs {
			dx := xs[s.u] - xs[s.v]
			dy := ys[s.u] - ys[s.v]
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 0.01 {
				continue
			}

			force := s.weight * (dist * dist) / k
			px := (dx / dist) * force
			py := (dy / dist) * force
			fx[s.u] -= px
			fy[s.u] -= py
			fx[s.v] += px
			fy[s.v] += py
		}

		// Apply forces, capped by the cooling temperature
		step := temperature * (1 - float64(iter)/float64(cfg.Iterations))
		for i := 0; i < n; i++ {
			force := math.Sqrt(fx[i]*fx[i] + fy[i]*fy[i])
			if force > 0 {
				xs[i] += (fx[i] / force) * math.Min(force, step)
				ys[i] += (fy[i] / force) * math.Min(force, step)
			}
		}
	}

	xs, ys = normalizePositions(xs, ys, cfg.Width, cfg.Height, cfg.Padding)
	return toPositions(names, xs, ys), nil
}
