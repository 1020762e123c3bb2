package graph

import "sort"

// Graph is an immutable snapshot of a node/edge set with attributes.
// Stages that enrich a graph return a new snapshot instead of mutating the
// one they were given, so a Graph is safe to share between goroutines.
type Graph struct {
	name     string
	directed bool

	nodes []Node
	index map[string]int

	edges     []Edge
	edgeIndex map[pairKey]int

	// out holds successors (directed) or all neighbours (undirected);
	// in holds predecessors and is only populated for directed graphs.
	out [][]int
	in  [][]int
}

// Name returns the graph identity used for logging and cache keys
func (g *Graph) Name() string {
	return g.name
}

// Directed reports whether edges are ordered pairs
func (g *Graph) Directed() bool {
	return g.directed
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// NodeNames returns node identities in insertion order
func (g *Graph) NodeNames() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.Name
	}
	return names
}

// Nodes returns deep copies of all nodes in insertion order
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.Clone()
	}
	return nodes
}

// Node returns a deep copy of the named node
func (g *Graph) Node(name string) (Node, error) {
	i, ok := g.index[name]
	if !ok {
		return Node{}, nodeError("Node", name)
	}
	return g.nodes[i].Clone(), nil
}

func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// NodeAttr returns a single node attribute value
func (g *Graph) NodeAttr(name, attr string) (Value, bool) {
	i, ok := g.index[name]
	if !ok {
		return Value{}, false
	}
	v, ok := g.nodes[i].Attrs[attr]
	return v, ok
}

// Edges returns deep copies of all edges in insertion order
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = e.Clone()
	}
	return edges
}

// Edge returns the edge between two nodes. For undirected graphs the order
// of the endpoints does not matter.
func (g *Graph) Edge(source, target string) (Edge, error) {
	u, okU := g.index[source]
	v, okV := g.index[target]
	if !okU || !okV {
		return Edge{}, edgeError("Edge", source, target)
	}
	ei, ok := g.edgeIndex[keyFor(g.directed, u, v)]
	if !ok {
		return Edge{}, edgeError("Edge", source, target)
	}
	return g.edges[ei].Clone(), nil
}

func (g *Graph) HasEdge(source, target string) bool {
	_, err := g.Edge(source, target)
	return err == nil
}

// EdgeAttr returns a single edge attribute value
func (g *Graph) EdgeAttr(source, target, attr string) (Value, bool) {
	u, okU := g.index[source]
	v, okV := g.index[target]
	if !okU || !okV {
		return Value{}, false
	}
	ei, ok := g.edgeIndex[keyFor(g.directed, u, v)]
	if !ok {
		return Value{}, false
	}
	val, ok := g.edges[ei].Attrs[attr]
	return val, ok
}

// Index returns the position of a node in insertion order
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// NameAt returns the node identity at position i
func (g *Graph) NameAt(i int) string {
	return g.nodes[i].Name
}

// Successors returns the out-neighbour indices of node i (all neighbours
// for undirected graphs). The slice must not be modified.
func (g *Graph) Successors(i int) []int {
	return g.out[i]
}

// Predecessors returns the in-neighbour indices of node i (all neighbours
// for undirected graphs). The slice must not be modified.
func (g *Graph) Predecessors(i int) []int {
	if !g.directed {
		return g.out[i]
	}
	return g.in[i]
}

// Neighbors returns the indices adjacent to node i in either direction,
// without duplicates, in ascending order.
func (g *Graph) Neighbors(i int) []int {
	if !g.directed {
		return g.out[i]
	}
	seen := make(map[int]bool, len(g.out[i])+len(g.in[i]))
	merged := make([]int, 0, len(g.out[i])+len(g.in[i]))
	for _, j := range g.out[i] {
		if !seen[j] {
			seen[j] = true
			merged = append(merged, j)
		}
	}
	for _, j := range g.in[i] {
		if !seen[j] {
			seen[j] = true
			merged = append(merged, j)
		}
	}
	sort.Ints(merged)
	return merged
}

// WeightAt returns the weight of the edge u->v (or u-v), 0 when absent
func (g *Graph) WeightAt(u, v int) float64 {
	ei, ok := g.edgeIndex[keyFor(g.directed, u, v)]
	if !ok {
		return 0
	}
	return g.edges[ei].Weight
}

// OutDegree returns the number of successors of a node
func (g *Graph) OutDegree(name string) int {
	i, ok := g.index[name]
	if !ok {
		return 0
	}
	return len(g.out[i])
}

// InDegree returns the number of predecessors of a node
func (g *Graph) InDegree(name string) int {
	i, ok := g.index[name]
	if !ok {
		return 0
	}
	return len(g.Predecessors(i))
}

// Degree returns in+out degree for directed graphs and the neighbour count
// for undirected graphs.
func (g *Graph) Degree(name string) int {
	i, ok := g.index[name]
	if !ok {
		return 0
	}
	if g.directed {
		return len(g.out[i]) + len(g.in[i])
	}
	return len(g.out[i])
}

// EdgesOf returns deep copies of the edges incident to a node
func (g *Graph) EdgesOf(name string) []Edge {
	var edges []Edge
	for _, e := range g.edges {
		if e.Source == name || e.Target == name {
			edges = append(edges, e.Clone())
		}
	}
	return edges
}
