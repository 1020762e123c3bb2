// Package export turns an enriched graph and its layout into the element
// lists consumed by the rendering layer.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-atlas/pkg/aggregate"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/visualization"
)

// ColorSuffix is appended to a continuous attribute's name for the field
// carrying its position on the colour scale, in [0, 1]
const ColorSuffix = "_color"

// ErrMissingPosition is returned when a layout does not place every node
var ErrMissingPosition = errors.New("node has no position")

// Element is one node or edge of the view
type Element struct {
	Data     map[string]any          `json:"data"`
	Position *visualization.Position `json:"position,omitempty"`
	Classes  string                  `json:"classes"`
	Locked   bool                    `json:"locked,omitempty"`
}

// ID returns the node id of a node element
func (e Element) ID() string {
	id, _ := e.Data["id"].(string)
	return id
}

// View is the exported form of one graph
type View struct {
	Graph      string                `json:"graph"`
	Directed   bool                  `json:"directed"`
	Nodes      []Element             `json:"nodes"`
	Edges      []Element             `json:"edges"`
	Properties *aggregate.Properties `json:"properties"`
}

// Build exports every node and edge of g with the representative values of
// the attributes profiled in props. Discrete values also become classes;
// continuous ones get a "<attr>_color" field. A nil positions map exports
// no positions; otherwise every node must be placed.
func Build(g *graph.Graph, positions visualization.Positions, props *aggregate.Properties) (*View, error) {
	if props == nil {
		props = &aggregate.Properties{}
	}
	view := &View{
		Graph:      g.Name(),
		Directed:   g.Directed(),
		Nodes:      make([]Element, 0, g.NodeCount()),
		Edges:      make([]Element, 0, g.EdgeCount()),
		Properties: props,
	}

	for _, n := range g.Nodes() {
		el := Element{Data: map[string]any{"id": n.Name}}
		if positions != nil {
			pos, ok := positions[n.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingPosition, n.Name)
			}
			el.Position = &pos
			el.Locked = true
		}
		classes, err := fill(el.Data, props.NodeOrder, props.Nodes, n.Name, n.Attrs)
		if err != nil {
			return nil, err
		}
		el.Classes = classes
		view.Nodes = append(view.Nodes, el)
	}

	for _, e := range g.Edges() {
		el := Element{Data: map[string]any{"source": e.Source, "target": e.Target, "weight": e.Weight}}
		if _, ok := e.Attrs["weight"]; !ok {
			e.Attrs["weight"] = graph.Scalar(e.Weight)
		}
		classes, err := fill(el.Data, props.EdgeOrder, props.Edges, e.Source+"->"+e.Target, e.Attrs)
		if err != nil {
			return nil, err
		}
		el.Classes = classes
		view.Edges = append(view.Edges, el)
	}
	return view, nil
}

func fill(data map[string]any, order []string, profiles map[string]*aggregate.Profile, entity string, attrs graph.Attributes) (string, error) {
	var classes []string
	for _, attr := range order {
		p := profiles[attr]
		v, ok := attrs[attr]
		if !ok {
			v = graph.Empty()
		}
		rep, err := p.Representative(entity, v)
		if err != nil {
			return "", err
		}
		if label, ok := rep.Label(); ok {
			classes = append(classes, label)
			data[attr] = label
			continue
		}
		x, _ := rep.Scalar()
		data[attr] = x
		data[attr+ColorSuffix] = p.Normalize(x)
	}
	return strings.Join(classes, " "), nil
}

// LegendEntry is one class of a discrete attribute with its node count
type LegendEntry struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// Legend lists the classes of a discrete node attribute in label order
func (v *View) Legend(attr string) ([]LegendEntry, error) {
	p, ok := v.Properties.Nodes[attr]
	if !ok {
		return nil, &aggregate.EmptyAttributeError{Attribute: attr, Scope: aggregate.ScopeNodes}
	}
	if p.Kind != aggregate.Discrete {
		return nil, fmt.Errorf("attribute %s is %s, legends need a discrete attribute", attr, p.Kind)
	}

	counts := make(map[string]int, len(p.Labels))
	for _, n := range v.Nodes {
		if label, ok := n.Data[attr].(string); ok {
			counts[label]++
		}
	}
	legend := make([]LegendEntry, 0, len(p.Labels))
	for _, label := range p.Labels {
		legend = append(legend, LegendEntry{Class: label, Count: counts[label]})
	}
	sort.SliceStable(legend, func(i, j int) bool { return legend[i].Count > legend[j].Count })
	return legend, nil
}

// WriteJSON writes the view as indented JSON
func (v *View) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode view %s: %w", v.Graph, err)
	}
	return nil
}

// WriteFile writes the view to path, creating parent directories
func (v *View) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
