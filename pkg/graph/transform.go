package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/topo"
)

// WithNodeAttribute returns a new snapshot in which every node carries attr.
// Nodes missing from values get fill.
func (g *Graph) WithNodeAttribute(attr string, values map[string]Value, fill Value) *Graph {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.Clone()
		if v, ok := values[n.Name]; ok {
			nodes[i].Attrs[attr] = v
		} else {
			nodes[i].Attrs[attr] = fill
		}
	}
	return g.withNodes(nodes)
}

// WithEdgeAttribute returns a new snapshot in which every edge carries attr.
// values is keyed by [source, target]; edges missing from it get fill.
func (g *Graph) WithEdgeAttribute(attr string, values map[[2]string]Value, fill Value) *Graph {
	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = e.Clone()
		v, ok := values[[2]string{e.Source, e.Target}]
		if !ok && !g.directed {
			v, ok = values[[2]string{e.Target, e.Source}]
		}
		if ok {
			edges[i].Attrs[attr] = v
		} else {
			edges[i].Attrs[attr] = fill
		}
	}
	return &Graph{
		name:      g.name,
		directed:  g.directed,
		nodes:     g.cloneNodes(),
		index:     g.index,
		edges:     edges,
		edgeIndex: g.edgeIndex,
		out:       g.out,
		in:        g.in,
	}
}

// WithName returns a snapshot of the same graph under a different identity
func (g *Graph) WithName(name string) *Graph {
	clone := g.withNodes(g.cloneNodes())
	clone.name = name
	return clone
}

// withNodes shares the immutable index, edge and adjacency structures and
// swaps in a freshly cloned node slice.
func (g *Graph) withNodes(nodes []Node) *Graph {
	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = e.Clone()
	}
	return &Graph{
		name:      g.name,
		directed:  g.directed,
		nodes:     nodes,
		index:     g.index,
		edges:     edges,
		edgeIndex: g.edgeIndex,
		out:       g.out,
		in:        g.in,
	}
}

func (g *Graph) cloneNodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.Clone()
	}
	return nodes
}

// Undirected returns an undirected copy of a directed graph. Reciprocal
// links fold into a single edge carrying the larger of the two weights and
// the attributes of the edge seen first. Undirected graphs are returned as-is.
func (g *Graph) Undirected() *Graph {
	if !g.directed {
		return g
	}
	nodes := g.cloneNodes()
	edges := make([]Edge, 0, len(g.edges))
	seen := make(map[pairKey]int, len(g.edges))
	for _, e := range g.edges {
		key := keyFor(false, g.index[e.Source], g.index[e.Target])
		if ei, ok := seen[key]; ok {
			if e.Weight > edges[ei].Weight {
				edges[ei].Weight = e.Weight
			}
			continue
		}
		seen[key] = len(edges)
		edges = append(edges, e.Clone())
	}
	return assemble(g.name, false, nodes, edges)
}

// Subgraph returns the induced subgraph on the named nodes, keeping the
// original insertion order. Unknown names are ignored.
func (g *Graph) Subgraph(names []string) *Graph {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		if g.HasNode(name) {
			keep[name] = true
		}
	}
	nodes := make([]Node, 0, len(keep))
	for _, n := range g.nodes {
		if keep[n.Name] {
			nodes = append(nodes, n.Clone())
		}
	}
	edges := make([]Edge, 0)
	for _, e := range g.edges {
		if keep[e.Source] && keep[e.Target] {
			edges = append(edges, e.Clone())
		}
	}
	return assemble(g.name, g.directed, nodes, edges)
}

// Components returns the weakly connected components, largest first. Ties
// are broken by the earliest member; members keep insertion order.
func (g *Graph) Components() [][]string {
	if len(g.nodes) == 0 {
		return nil
	}
	raw := topo.ConnectedComponents(g.GonumUndirected(false))
	comps := make([][]int, len(raw))
	for i, c := range raw {
		idx := make([]int, len(c))
		for j, n := range c {
			idx[j] = int(n.ID())
		}
		sort.Ints(idx)
		comps[i] = idx
	}
	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
	out := make([][]string, len(comps))
	for i, c := range comps {
		names := make([]string, len(c))
		for j, idx := range c {
			names[j] = g.nodes[idx].Name
		}
		out[i] = names
	}
	return out
}

// LargestComponent returns the induced subgraph of the largest weakly
// connected component.
func (g *Graph) LargestComponent() *Graph {
	comps := g.Components()
	if len(comps) == 0 {
		return g
	}
	return g.Subgraph(comps[0])
}
