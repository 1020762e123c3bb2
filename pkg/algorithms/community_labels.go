package algorithms

import (
	"fmt"
	"sort"
)

// otherLabel is the catch-all bucket of a level
func otherLabel(level int) string {
	return fmt.Sprintf("L%d-Other", level)
}

// relabel names the communities of one level. Communities are ranked by
// size, largest first, ties broken by their earliest member, and named
// L<level>-<rank>. Communities with fewer than threshold members all share
// the level's Other bucket. It returns the label of every node and the
// number of distinct labels.
func relabel(level int, partition []int, threshold int) ([]string, int) {
	n := countCommunities(partition)
	size := make([]int, n)
	first := make([]int, n)
	for i := range first {
		first[i] = -1
	}
	for node, c := range partition {
		size[c]++
		if first[c] < 0 {
			first[c] = node
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if size[a] != size[b] {
			return size[a] > size[b]
		}
		return first[a] < first[b]
	})

	names := make([]string, n)
	rank := 0
	hasOther := false
	for _, c := range order {
		if size[c] < threshold {
			names[c] = otherLabel(level)
			hasOther = true
			continue
		}
		names[c] = fmt.Sprintf("L%d-%d", level, rank)
		rank++
	}

	labels := make([]string, len(partition))
	for node, c := range partition {
		labels[node] = names[c]
	}
	buckets := rank
	if hasOther {
		buckets++
	}
	return labels, buckets
}
