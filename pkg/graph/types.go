package graph

import "strings"

// Node represents a vertex in the graph
type Node struct {
	Name  string
	Attrs Attributes
}

// Edge represents a relationship between two nodes. For undirected graphs
// Source is the endpoint that was inserted first.
type Edge struct {
	Source string
	Target string
	Weight float64
	Attrs  Attributes
}

// Clone creates a deep copy of a node
func (n Node) Clone() Node {
	return Node{Name: n.Name, Attrs: n.Attrs.Clone()}
}

// Clone creates a deep copy of an edge
func (e Edge) Clone() Edge {
	return Edge{Source: e.Source, Target: e.Target, Weight: e.Weight, Attrs: e.Attrs.Clone()}
}

// Canonical normalises an entity name into a node identity
func Canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// pairKey identifies the single edge allowed between two node indices
type pairKey struct {
	u, v int
}

func keyFor(directed bool, u, v int) pairKey {
	if !directed && v < u {
		u, v = v, u
	}
	return pairKey{u: u, v: v}
}
