package category

import (
	"fmt"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/ingest"
)

// Source supplies the raw categories of a node
type Source interface {
	Categories(node string) ([]string, error)
}

type attributeSource struct {
	g    *graph.Graph
	attr string
}

// FromAttribute reads categories from a node's own label-list attribute
func FromAttribute(g *graph.Graph, attr string) Source {
	return attributeSource{g: g, attr: attr}
}

func (s attributeSource) Categories(node string) ([]string, error) {
	v, ok := s.g.NodeAttr(node, s.attr)
	if !ok {
		return nil, nil
	}
	switch v.Kind() {
	case graph.KindLabel:
		label, _ := v.Label()
		return []string{label}, nil
	case graph.KindSequence:
		items := v.Items()
		out := make([]string, 0, len(items))
		for _, item := range items {
			label, ok := item.Label()
			if !ok {
				return nil, fmt.Errorf("category: node %q attribute %q holds non-label %s", node, s.attr, item)
			}
			out = append(out, label)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("category: node %q attribute %q holds non-label %s", node, s.attr, v)
	}
}

// DocumentSource looks categories up in encyclopedia documents by canonical
// identity. It lets the co-mention graph borrow categories from the link
// graph's corpus.
type DocumentSource struct {
	byName map[string][]string
}

// FromDocuments indexes documents by their resolved identity
func FromDocuments(docs []ingest.Document, aliases *ingest.AliasTable) *DocumentSource {
	s := &DocumentSource{byName: make(map[string][]string, len(docs))}
	for _, doc := range docs {
		id, ok := aliases.Resolve(doc.Name)
		if !ok {
			id = graph.Canonical(doc.Name)
		}
		if _, exists := s.byName[id]; !exists {
			s.byName[id] = doc.Categories
		}
	}
	return s
}

func (s *DocumentSource) Categories(node string) ([]string, error) {
	return s.byName[node], nil
}

// Assign returns a snapshot of g in which every node carries attr set to
// the label mapping assigns to its categories. g itself is not modified.
func Assign(g *graph.Graph, src Source, mapping *Mapping, attr string) (*graph.Graph, error) {
	labels := make(map[string]graph.Value, g.NodeCount())
	for _, name := range g.NodeNames() {
		cats, err := src.Categories(name)
		if err != nil {
			return nil, err
		}
		labels[name] = graph.Label(mapping.Lookup(cats))
	}
	return g.WithNodeAttribute(attr, labels, graph.Label(Other)), nil
}

// AttributeName is the node attribute an axis is written to
func AttributeName(axis string) string {
	return axis + "_category"
}

// AssignAxes applies every axis in name order, writing each to
// AttributeName(axis).
func AssignAxes(g *graph.Graph, src Source, axes map[string]*Mapping) (*graph.Graph, error) {
	for _, axis := range AxisNames(axes) {
		var err error
		g, err = Assign(g, src, axes[axis], AttributeName(axis))
		if err != nil {
			return nil, fmt.Errorf("assign %s categories: %w", axis, err)
		}
	}
	return g, nil
}
