package ingest

import (
	"unicode/utf8"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
)

// Co-mention graph attributes
const (
	AttrPostIDs   = "ids"
	AttrContents  = "contents"
	AttrPostCount = "post_count"
	AttrCount     = "count"
)

// CoMentionOptions configures BuildCoMentionGraph
type CoMentionOptions struct {
	Name string
	// MinContentLength discards posts shorter than this many characters
	MinContentLength int `yaml:"min_content_length" validate:"gte=0"`
	// MaxEntitiesPerPost discards posts naming more distinct entities
	MaxEntitiesPerPost int `yaml:"max_entities_per_post" validate:"gte=1"`
	// MinEdgeOccurrences drops edges seen in fewer posts
	MinEdgeOccurrences int  `yaml:"min_edge_occurrences" validate:"gte=1"`
	IncludePostIDs     bool `yaml:"include_post_ids"`
	IncludeContents    bool `yaml:"include_contents"`

	Logger logging.Logger `yaml:"-"`
}

// DefaultCoMentionOptions returns the thresholds used for the forum corpus
func DefaultCoMentionOptions() CoMentionOptions {
	return CoMentionOptions{
		Name:               "reddit",
		MinContentLength:   30,
		MaxEntitiesPerPost: 8,
		MinEdgeOccurrences: 2,
		IncludePostIDs:     true,
	}
}

// BuildCoMentionGraph builds the undirected co-mention graph. A post is
// accepted when its content is long enough and it names at least one and at
// most MaxEntitiesPerPost distinct entities; every pair of entities it
// names gains one unit of weight. Edges below MinEdgeOccurrences are removed
// once all posts are in. Edge weights are mirrored in the "count" attribute.
func BuildCoMentionGraph(posts []Post, aliases *AliasTable, opts CoMentionOptions) (*graph.Graph, *BuildStats) {
	name := opts.Name
	if name == "" {
		name = "reddit"
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("ingest"), logging.Graph(name))
	stats := newBuildStats(name)

	b := graph.NewBuilder(name, false)
	postCount := make(map[string]int)
	for _, post := range posts {
		if utf8.RuneCountInString(post.Content) < opts.MinContentLength {
			stats.reject(RejectTooShort)
			continue
		}

		entities := resolveMentions(post, aliases, stats, logger)
		if len(entities) == 0 {
			stats.reject(RejectNoMentions)
			continue
		}
		if opts.MaxEntitiesPerPost > 0 && len(entities) > opts.MaxEntitiesPerPost {
			stats.reject(RejectTooManyMatches)
			continue
		}
		stats.Accepted++

		for _, e := range entities {
			b.EnsureNode(e)
			postCount[e]++
			if opts.IncludePostIDs {
				_ = b.AppendNodeAttr(e, AttrPostIDs, graph.Label(post.ID))
			}
			if opts.IncludeContents {
				_ = b.AppendNodeAttr(e, AttrContents, graph.Label(post.Content))
			}
		}
		for i := 0; i < len(entities); i++ {
			for j := i + 1; j < len(entities); j++ {
				b.AddEdge(entities[i], entities[j], 1)
			}
		}
	}

	stats.DroppedEdges = b.RemoveEdgesBelow(float64(opts.MinEdgeOccurrences))

	// pre-built so the count attribute reads the surviving weights
	g := b.Build()
	counts := make(map[[2]string]graph.Value, g.EdgeCount())
	for _, e := range g.Edges() {
		counts[[2]string{e.Source, e.Target}] = graph.Scalar(e.Weight)
	}
	posted := make(map[string]graph.Value, len(postCount))
	for n, c := range postCount {
		posted[n] = graph.Scalar(float64(c))
	}
	g = g.WithEdgeAttribute(AttrCount, counts, graph.Scalar(0)).
		WithNodeAttribute(AttrPostCount, posted, graph.Scalar(0))

	logger.Info("co-mention graph built",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("accepted", stats.Accepted),
		logging.Int("rejected", stats.TotalRejected()),
		logging.Int("dropped_edges", stats.DroppedEdges),
		logging.Int("alias_misses", stats.AliasMisses))
	return g, stats
}

// resolveMentions returns the distinct canonical entities a post names,
// in order of first mention.
func resolveMentions(post Post, aliases *AliasTable, stats *BuildStats, logger logging.Logger) []string {
	if post.Mentions == nil {
		return DetectMentions(post.Title+"\n"+post.Content, aliases)
	}
	seen := make(map[string]bool, len(post.Mentions))
	var out []string
	for _, m := range post.Mentions {
		c, ok := aliases.Resolve(m)
		if !ok {
			stats.miss(m)
			logger.Debug("unresolved mention", logging.String("post", post.ID), logging.String("mention", m))
			continue
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
