package graph

import (
	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// The views below expose a Graph to gonum without copying it. Node IDs are
// insertion positions and every iterator yields nodes in ascending ID
// order, so seeded gonum algorithms see the same input on every run.

// GonumUndirected returns an undirected gonum view of g. Directed edges
// are folded; reciprocal links weigh the larger of the two weights. When
// weighted is false the view does not implement graph.Weighted and gonum
// treats every edge as weight 1.
func (g *Graph) GonumUndirected(weighted bool) gg.Undirected {
	v := undirectedView{g: g}
	if weighted {
		return weightedUndirectedView{v}
	}
	return v
}

// GonumDirected returns a directed gonum view of g. Undirected graphs
// expose both orientations of every edge.
func (g *Graph) GonumDirected() gg.Directed {
	return directedView{g: g}
}

func (g *Graph) validID(id int64) bool {
	return id >= 0 && id < int64(len(g.nodes))
}

func orderedNodes(ids []int) gg.Nodes {
	if len(ids) == 0 {
		return gg.Empty
	}
	nodes := make([]gg.Node, len(ids))
	for i, id := range ids {
		nodes[i] = simple.Node(int64(id))
	}
	return iterator.NewOrderedNodes(nodes)
}

func allNodes(g *Graph) gg.Nodes {
	ids := make([]int, len(g.nodes))
	for i := range ids {
		ids[i] = i
	}
	return orderedNodes(ids)
}

type undirectedView struct {
	g *Graph
}

func (v undirectedView) Node(id int64) gg.Node {
	if !v.g.validID(id) {
		return nil
	}
	return simple.Node(id)
}

func (v undirectedView) Nodes() gg.Nodes {
	return allNodes(v.g)
}

func (v undirectedView) From(id int64) gg.Nodes {
	if !v.g.validID(id) {
		return gg.Empty
	}
	return orderedNodes(v.g.Neighbors(int(id)))
}

// weight folds both orientations of a directed pair
func (v undirectedView) weight(xid, yid int64) (float64, bool) {
	if !v.g.validID(xid) || !v.g.validID(yid) || xid == yid {
		return 0, false
	}
	x, y := int(xid), int(yid)
	_, fwd := v.g.edgeIndex[keyFor(v.g.directed, x, y)]
	_, rev := v.g.edgeIndex[keyFor(v.g.directed, y, x)]
	if !fwd && !rev {
		return 0, false
	}
	return max(v.g.WeightAt(x, y), v.g.WeightAt(y, x)), true
}

func (v undirectedView) HasEdgeBetween(xid, yid int64) bool {
	_, ok := v.weight(xid, yid)
	return ok
}

func (v undirectedView) Edge(uid, vid int64) gg.Edge {
	return v.EdgeBetween(uid, vid)
}

func (v undirectedView) EdgeBetween(xid, yid int64) gg.Edge {
	if !v.HasEdgeBetween(xid, yid) {
		return nil
	}
	return simple.Edge{F: simple.Node(xid), T: simple.Node(yid)}
}

type weightedUndirectedView struct {
	undirectedView
}

func (v weightedUndirectedView) Edge(uid, vid int64) gg.Edge {
	return v.WeightedEdgeBetween(uid, vid)
}

func (v weightedUndirectedView) EdgeBetween(xid, yid int64) gg.Edge {
	return v.WeightedEdgeBetween(xid, yid)
}

func (v weightedUndirectedView) WeightedEdge(uid, vid int64) gg.WeightedEdge {
	return v.WeightedEdgeBetween(uid, vid)
}

func (v weightedUndirectedView) WeightedEdgeBetween(xid, yid int64) gg.WeightedEdge {
	w, ok := v.weight(xid, yid)
	if !ok {
		return nil
	}
	return simple.WeightedEdge{F: simple.Node(xid), T: simple.Node(yid), W: w}
}

// Weight follows the simple package: a node weighs 0 to itself
func (v weightedUndirectedView) Weight(xid, yid int64) (float64, bool) {
	if xid == yid && v.g.validID(xid) {
		return 0, true
	}
	return v.weight(xid, yid)
}

type directedView struct {
	g *Graph
}

func (v directedView) Node(id int64) gg.Node {
	if !v.g.validID(id) {
		return nil
	}
	return simple.Node(id)
}

func (v directedView) Nodes() gg.Nodes {
	return allNodes(v.g)
}

func (v directedView) From(id int64) gg.Nodes {
	if !v.g.validID(id) {
		return gg.Empty
	}
	return orderedNodes(v.g.Successors(int(id)))
}

func (v directedView) To(id int64) gg.Nodes {
	if !v.g.validID(id) {
		return gg.Empty
	}
	return orderedNodes(v.g.Predecessors(int(id)))
}

func (v directedView) HasEdgeFromTo(uid, vid int64) bool {
	if !v.g.validID(uid) || !v.g.validID(vid) {
		return false
	}
	_, ok := v.g.edgeIndex[keyFor(v.g.directed, int(uid), int(vid))]
	return ok
}

func (v directedView) HasEdgeBetween(xid, yid int64) bool {
	return v.HasEdgeFromTo(xid, yid) || v.HasEdgeFromTo(yid, xid)
}

func (v directedView) Edge(uid, vid int64) gg.Edge {
	if !v.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}
