package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// JointResult holds two detection runs over graphs that share a naming
// scheme. Both graphs carry both label families, so a node's community in
// one corpus can be compared with its community in the other.
type JointResult struct {
	A *CommunityResult
	B *CommunityResult
}

// DetectJointCommunities runs DetectCommunities on both graphs and projects
// each run's labels onto the other graph. Nodes absent from the graph a
// family was computed on get that level's Other bucket.
func DetectJointCommunities(a, b *graph.Graph, optsA, optsB CommunityOptions) (*JointResult, error) {
	ra, err := DetectCommunities(a, optsA)
	if err != nil {
		return nil, fmt.Errorf("joint communities on %q: %w", a.Name(), err)
	}
	rb, err := DetectCommunities(b, optsB)
	if err != nil {
		return nil, fmt.Errorf("joint communities on %q: %w", b.Name(), err)
	}

	gaWithB := Project(rb, ra.Graph)
	gbWithA := Project(ra, rb.Graph)
	ra.Graph, rb.Graph = gaWithB, gbWithA
	return &JointResult{A: ra, B: rb}, nil
}

// Project writes every level of r, plus its chosen level, onto target.
// Target nodes r did not label get the level's Other bucket.
func Project(r *CommunityResult, target *graph.Graph) *graph.Graph {
	for _, l := range r.Levels {
		target = target.WithNodeAttribute(l.Attribute, labelValues(r.nodes, l.Labels), graph.Label(otherLabel(l.Level)))
	}
	chosen := r.Chosen()
	return target.WithNodeAttribute(r.Attribute, labelValues(r.nodes, chosen.Labels), graph.Label(otherLabel(chosen.Level)))
}

// Overlap counts, for every label of r's chosen level, how many of its
// members also appear in other.
func Overlap(r *CommunityResult, other *graph.Graph) map[string]int {
	chosen := r.Chosen()
	out := make(map[string]int)
	for i, name := range r.nodes {
		if other.HasNode(name) {
			out[chosen.Labels[i]]++
		}
	}
	return out
}
