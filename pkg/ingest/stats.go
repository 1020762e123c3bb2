package ingest

import "sort"

// RejectReason names the filter that discarded a record
type RejectReason string

const (
	RejectTooShort       RejectReason = "too_short"
	RejectTooManyMatches RejectReason = "too_many_entities"
	RejectNoMentions     RejectReason = "no_mentions"
)

// BuildStats summarises what a builder accepted and discarded
type BuildStats struct {
	Graph    string               `json:"graph"`
	Accepted int                  `json:"accepted"`
	Rejected map[RejectReason]int `json:"rejected,omitempty"`
	// AliasMisses counts names that did not resolve through the alias table
	AliasMisses int            `json:"alias_misses"`
	Misses      map[string]int `json:"-"`
	// DroppedEdges counts edges removed by the occurrence threshold
	DroppedEdges int `json:"dropped_edges"`
	// DroppedReferences counts self references and references to entities
	// that are not documents
	DroppedReferences int `json:"dropped_references"`
}

func newBuildStats(name string) *BuildStats {
	return &BuildStats{
		Graph:    name,
		Rejected: make(map[RejectReason]int),
		Misses:   make(map[string]int),
	}
}

func (s *BuildStats) reject(reason RejectReason) {
	s.Rejected[reason]++
}

func (s *BuildStats) miss(name string) {
	s.AliasMisses++
	s.Misses[name]++
}

// TotalRejected sums the rejections over every reason
func (s *BuildStats) TotalRejected() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// TopMisses returns up to n unresolved names, most frequent first
func (s *BuildStats) TopMisses(n int) []string {
	names := make([]string, 0, len(s.Misses))
	for name := range s.Misses {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Misses[names[i]] != s.Misses[names[j]] {
			return s.Misses[names[i]] > s.Misses[names[j]]
		}
		return names[i] < names[j]
	})
	if n >= 0 && len(names) > n {
		names = names[:n]
	}
	return names
}
