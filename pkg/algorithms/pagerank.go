package algorithms

import (
	"container/heap"

	"gonum.org/v1/gonum/graph/network"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// PageRank damping and tolerance used by the pagerank ranking
const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// RankedNode represents a node with its rank
type RankedNode struct {
	Node  string  `json:"node"`
	Score float64 `json:"score"`
	// Index is the node's position in the graph, used to break ties
	Index int `json:"-"`
}

// pageRankScores returns PageRank scores in node order. Undirected graphs
// are walked in both directions.
func pageRankScores(g *graph.Graph) []float64 {
	ranks := network.PageRank(g.GonumDirected(), pageRankDamping, pageRankTolerance)
	scores := make([]float64, g.NodeCount())
	for i := range scores {
		scores[i] = ranks[int64(i)]
	}
	return scores
}

// rankedNodeHeap is a min-heap of RankedNode: the root is the entry that
// would be ranked last, i.e. the lowest score and, among equal scores, the
// latest node.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	return rankedBefore(h[j], h[i])
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// rankedBefore orders by descending score, then by node order
func rankedBefore(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// findTopNodes returns the n best-ranked nodes, best first, in O(N log n).
// n <= 0 returns every node.
func findTopNodes(g *graph.Graph, scores []float64, n int) []RankedNode {
	if n <= 0 || n > len(scores) {
		n = len(scores)
	}
	if n == 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for i, score := range scores {
		rn := RankedNode{Node: g.NameAt(i), Score: score, Index: i}
		if h.Len() < n {
			heap.Push(&h, rn)
		} else if rankedBefore(rn, h[0]) {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	// pops come out worst first
	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}
	return result
}
