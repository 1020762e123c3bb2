package graph

import "sort"

// Builder accumulates nodes and edges and produces an immutable Graph.
// A Builder is not safe for concurrent use.
type Builder struct {
	name     string
	directed bool

	nodes []Node
	index map[string]int

	edges     []Edge
	edgeIndex map[pairKey]int
	removed   map[int]bool
}

// NewBuilder creates a builder for a directed or undirected graph
func NewBuilder(name string, directed bool) *Builder {
	return &Builder{
		name:      name,
		directed:  directed,
		index:     make(map[string]int),
		edgeIndex: make(map[pairKey]int),
		removed:   make(map[int]bool),
	}
}

// EnsureNode adds the node if it does not exist and returns its position
func (b *Builder) EnsureNode(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.nodes = append(b.nodes, Node{Name: name, Attrs: make(Attributes)})
	b.index[name] = len(b.nodes) - 1
	return len(b.nodes) - 1
}

// AddNode adds a node, merging attrs into an existing node of the same name
func (b *Builder) AddNode(name string, attrs Attributes) int {
	i := b.EnsureNode(name)
	for k, v := range attrs {
		b.nodes[i].Attrs[k] = v
	}
	return i
}

func (b *Builder) HasNode(name string) bool {
	_, ok := b.index[name]
	return ok
}

func (b *Builder) NodeCount() int {
	return len(b.nodes)
}

// SetNodeAttr sets one attribute on an existing node
func (b *Builder) SetNodeAttr(name, attr string, v Value) error {
	i, ok := b.index[name]
	if !ok {
		return nodeError("SetNodeAttr", name)
	}
	b.nodes[i].Attrs[attr] = v
	return nil
}

// AppendNodeAttr appends an item to a sequence attribute of an existing node
func (b *Builder) AppendNodeAttr(name, attr string, item Value) error {
	i, ok := b.index[name]
	if !ok {
		return nodeError("AppendNodeAttr", name)
	}
	current, ok := b.nodes[i].Attrs[attr]
	if !ok {
		current = Empty()
	}
	b.nodes[i].Attrs[attr] = current.Append(item)
	return nil
}

// AddEdge adds weight to the edge between source and target, creating the
// edge (and missing endpoints) on first use. Repeated insertions fold into
// the weight so a pair never holds more than one edge. Self loops are
// ignored and reported as false.
func (b *Builder) AddEdge(source, target string, weight float64) bool {
	if source == target {
		return false
	}
	u := b.EnsureNode(source)
	v := b.EnsureNode(target)
	key := keyFor(b.directed, u, v)
	if ei, ok := b.edgeIndex[key]; ok {
		b.edges[ei].Weight += weight
		return true
	}
	b.edges = append(b.edges, Edge{
		Source: source,
		Target: target,
		Weight: weight,
		Attrs:  make(Attributes),
	})
	b.edgeIndex[key] = len(b.edges) - 1
	return true
}

// EdgeWeight returns the accumulated weight of an edge
func (b *Builder) EdgeWeight(source, target string) (float64, bool) {
	ei, ok := b.edgePos(source, target)
	if !ok {
		return 0, false
	}
	return b.edges[ei].Weight, true
}

// SetEdgeAttr sets one attribute on an existing edge
func (b *Builder) SetEdgeAttr(source, target, attr string, v Value) error {
	ei, ok := b.edgePos(source, target)
	if !ok {
		return edgeError("SetEdgeAttr", source, target)
	}
	b.edges[ei].Attrs[attr] = v
	return nil
}

// RemoveEdgesBelow drops every edge whose weight is below min and returns
// how many were dropped.
func (b *Builder) RemoveEdgesBelow(min float64) int {
	dropped := 0
	for ei, e := range b.edges {
		if b.removed[ei] {
			continue
		}
		if e.Weight < min {
			b.removed[ei] = true
			dropped++
		}
	}
	return dropped
}

func (b *Builder) edgePos(source, target string) (int, bool) {
	u, okU := b.index[source]
	v, okV := b.index[target]
	if !okU || !okV {
		return 0, false
	}
	ei, ok := b.edgeIndex[keyFor(b.directed, u, v)]
	if !ok || b.removed[ei] {
		return 0, false
	}
	return ei, true
}

// Build produces the immutable snapshot. Every node ends up with the same
// attribute-name set (and likewise every edge); values missing on a given
// node or edge are filled with Empty(). The builder can keep being used
// afterwards without affecting the returned graph.
func (b *Builder) Build() *Graph {
	nodes := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		nodes[i] = n.Clone()
	}
	edges := make([]Edge, 0, len(b.edges))
	for ei, e := range b.edges {
		if b.removed[ei] {
			continue
		}
		edges = append(edges, e.Clone())
	}
	fillMissing(nodeAttrs(nodes))
	fillMissing(edgeAttrs(edges))
	return assemble(b.name, b.directed, nodes, edges)
}

// assemble indexes nodes and edges and computes adjacency
func assemble(name string, directed bool, nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		name:      name,
		directed:  directed,
		nodes:     nodes,
		index:     make(map[string]int, len(nodes)),
		edges:     edges,
		edgeIndex: make(map[pairKey]int, len(edges)),
		out:       make([][]int, len(nodes)),
	}
	if directed {
		g.in = make([][]int, len(nodes))
	}
	for i, n := range nodes {
		g.index[n.Name] = i
	}
	for ei, e := range edges {
		u := g.index[e.Source]
		v := g.index[e.Target]
		g.edgeIndex[keyFor(directed, u, v)] = ei
		g.out[u] = append(g.out[u], v)
		if directed {
			g.in[v] = append(g.in[v], u)
		} else {
			g.out[v] = append(g.out[v], u)
		}
	}
	for i := range g.out {
		sort.Ints(g.out[i])
	}
	for i := range g.in {
		sort.Ints(g.in[i])
	}
	return g
}

func nodeAttrs(nodes []Node) []Attributes {
	out := make([]Attributes, len(nodes))
	for i := range nodes {
		if nodes[i].Attrs == nil {
			nodes[i].Attrs = make(Attributes)
		}
		out[i] = nodes[i].Attrs
	}
	return out
}

func edgeAttrs(edges []Edge) []Attributes {
	out := make([]Attributes, len(edges))
	for i := range edges {
		if edges[i].Attrs == nil {
			edges[i].Attrs = make(Attributes)
		}
		out[i] = edges[i].Attrs
	}
	return out
}

func fillMissing(all []Attributes) {
	names := make(map[string]bool)
	for _, attrs := range all {
		for k := range attrs {
			names[k] = true
		}
	}
	for _, attrs := range all {
		for k := range names {
			if _, ok := attrs[k]; !ok {
				attrs[k] = Empty()
			}
		}
	}
}
