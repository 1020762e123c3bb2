package ingest

import (
	"unicode/utf8"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
)

// Link graph node attributes
const (
	AttrContent       = "content"
	AttrCategories    = "categories"
	AttrURL           = "url"
	AttrContentLength = "content_length"
)

// LinkOptions configures BuildLinkGraph
type LinkOptions struct {
	Name   string
	Logger logging.Logger
}

// BuildLinkGraph builds the directed document graph: one node per document
// and an edge A->B for each reference from A that resolves to another
// document. Unresolved references are dropped and counted; so are self
// references and references to entities without a document.
func BuildLinkGraph(docs []Document, aliases *AliasTable, opts LinkOptions) (*graph.Graph, *BuildStats) {
	name := opts.Name
	if name == "" {
		name = "wiki"
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("ingest"), logging.Graph(name))
	stats := newBuildStats(name)

	b := graph.NewBuilder(name, true)
	ids := make([]string, len(docs))
	for i, doc := range docs {
		id, ok := aliases.Resolve(doc.Name)
		if !ok {
			id = graph.Canonical(doc.Name)
		}
		ids[i] = id
		if id == "" {
			continue
		}
		b.AddNode(id, graph.Attributes{
			AttrContent:       graph.Label(doc.Content),
			AttrCategories:    graph.Labels(doc.Categories...),
			AttrURL:           graph.Label(doc.URL),
			AttrContentLength: graph.Scalar(float64(utf8.RuneCountInString(doc.Content))),
		})
		stats.Accepted++
	}

	for i, doc := range docs {
		source := ids[i]
		if source == "" {
			continue
		}
		for _, ref := range doc.References {
			target, ok := aliases.Resolve(ref)
			if !ok {
				stats.miss(ref)
				logger.Debug("unresolved reference", logging.Node(source), logging.String("reference", ref))
				continue
			}
			if target == source || !b.HasNode(target) {
				stats.DroppedReferences++
				continue
			}
			// presence only: repeated references do not add weight
			if _, exists := b.EdgeWeight(source, target); exists {
				continue
			}
			b.AddEdge(source, target, 1)
		}
	}

	g := b.Build()

	logger.Info("link graph built",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("alias_misses", stats.AliasMisses))
	return g, stats
}
