// Package aggregate classifies heterogeneous node and edge attributes and
// reduces each entity's value to a single representative for rendering.
package aggregate

import (
	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// Properties holds the profiles of the requested node and edge attributes.
// NodeOrder and EdgeOrder keep the order the attributes were requested in.
type Properties struct {
	Nodes     map[string]*Profile `json:"node_attributes"`
	Edges     map[string]*Profile `json:"edge_attributes"`
	NodeOrder []string            `json:"-"`
	EdgeOrder []string            `json:"-"`
}

// Build profiles the given node and edge attributes of g. It has no effect
// on g. An attribute that no entity carries a non-empty value for fails
// with *EmptyAttributeError.
func Build(g *graph.Graph, nodeAttrs, edgeAttrs []string) (*Properties, error) {
	props := &Properties{
		Nodes:     make(map[string]*Profile, len(nodeAttrs)),
		Edges:     make(map[string]*Profile, len(edgeAttrs)),
		NodeOrder: append([]string(nil), nodeAttrs...),
		EdgeOrder: append([]string(nil), edgeAttrs...),
	}

	for _, attr := range nodeAttrs {
		p, err := NewProfile(attr, ScopeNodes, NodeEntries(g, attr))
		if err != nil {
			return nil, err
		}
		props.Nodes[attr] = p
	}
	for _, attr := range edgeAttrs {
		p, err := NewProfile(attr, ScopeEdges, EdgeEntries(g, attr))
		if err != nil {
			return nil, err
		}
		props.Edges[attr] = p
	}
	return props, nil
}

// NodeEntries lists every node's value for attr in insertion order.
// Nodes without the attribute contribute the empty sentinel.
func NodeEntries(g *graph.Graph, attr string) []Entry {
	nodes := g.Nodes()
	entries := make([]Entry, len(nodes))
	for i, n := range nodes {
		v, ok := n.Attrs[attr]
		if !ok {
			v = graph.Empty()
		}
		entries[i] = Entry{Entity: n.Name, Value: v}
	}
	return entries
}

// EdgeEntries lists every edge's value for attr in insertion order.
// The "weight" attribute falls back to the edge weight.
func EdgeEntries(g *graph.Graph, attr string) []Entry {
	edges := g.Edges()
	entries := make([]Entry, len(edges))
	for i, e := range edges {
		v, ok := e.Attrs[attr]
		if !ok {
			if attr == "weight" {
				v = graph.Scalar(e.Weight)
			} else {
				v = graph.Empty()
			}
		}
		entries[i] = Entry{Entity: e.Source + "->" + e.Target, Value: v}
	}
	return entries
}

// NodeValues returns the representative value of attr for every node
func (p *Properties) NodeValues(g *graph.Graph, attr string) (map[string]graph.Value, error) {
	profile, ok := p.Nodes[attr]
	if !ok {
		return nil, &EmptyAttributeError{Attribute: attr, Scope: ScopeNodes}
	}
	return representatives(profile, NodeEntries(g, attr))
}

func representatives(p *Profile, entries []Entry) (map[string]graph.Value, error) {
	out := make(map[string]graph.Value, len(entries))
	for _, e := range entries {
		v, err := p.Representative(e.Entity, e.Value)
		if err != nil {
			return nil, err
		}
		out[e.Entity] = v
	}
	return out, nil
}
