package aggregate

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// NoneLabel is the representative of an empty discrete sequence
const NoneLabel = "None"

// Kind classifies an attribute as numeric or categorical
type Kind int

const (
	Continuous Kind = iota
	Discrete
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its name in exported JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Scope tells whether a profile describes node or edge attributes
type Scope string

const (
	ScopeNodes Scope = "nodes"
	ScopeEdges Scope = "edges"
)

func (s Scope) entity() string {
	if s == ScopeEdges {
		return "edge"
	}
	return "node"
}

// Profile describes one attribute across every node (or edge) of a graph.
// Min and Max are set for continuous attributes; Labels for discrete ones.
type Profile struct {
	Name   string   `json:"name"`
	Scope  Scope    `json:"scope"`
	Kind   Kind     `json:"kind"`
	Min    float64  `json:"min,omitempty"`
	Max    float64  `json:"max,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// Entry is one entity's raw value for an attribute
type Entry struct {
	Entity string
	Value  graph.Value
}

// NewProfile classifies an attribute from its values, given in iteration
// order. The first non-empty value decides the kind: a label or a sequence
// starting with a label is discrete, anything else is continuous.
func NewProfile(name string, scope Scope, entries []Entry) (*Profile, error) {
	exemplar, ok := firstNonEmpty(entries)
	if !ok {
		return nil, &EmptyAttributeError{Attribute: name, Scope: scope}
	}

	p := &Profile{Name: name, Scope: scope, Kind: classify(exemplar)}

	if p.Kind == Discrete {
		seen := make(map[string]bool)
		for _, e := range entries {
			label, err := p.discrete(e)
			if err != nil {
				return nil, err
			}
			if !seen[label] {
				seen[label] = true
				p.Labels = append(p.Labels, label)
			}
		}
		sort.Strings(p.Labels)
		return p, nil
	}

	values := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.Value.IsEmpty() {
			continue
		}
		x, err := p.continuous(e)
		if err != nil {
			return nil, err
		}
		values = append(values, x)
	}
	p.Min = floats.Min(values)
	p.Max = floats.Max(values)
	return p, nil
}

func firstNonEmpty(entries []Entry) (graph.Value, bool) {
	for _, e := range entries {
		if !e.Value.IsEmpty() {
			return e.Value, true
		}
	}
	return graph.Value{}, false
}

func classify(v graph.Value) Kind {
	if v.Kind() == graph.KindSequence {
		v = v.Item(0)
	}
	if v.Kind() == graph.KindLabel {
		return Discrete
	}
	return Continuous
}

// Representative reduces v to the single value used for colouring or
// bucketing: a class-safe label for discrete attributes, a number clipped
// into [Min, Max] for continuous ones.
func (p *Profile) Representative(entity string, v graph.Value) (graph.Value, error) {
	e := Entry{Entity: entity, Value: v}
	if p.Kind == Discrete {
		label, err := p.discrete(e)
		if err != nil {
			return graph.Value{}, err
		}
		return graph.Label(label), nil
	}
	if v.IsEmpty() {
		return graph.Scalar(p.Min), nil
	}
	x, err := p.continuous(e)
	if err != nil {
		return graph.Value{}, err
	}
	return graph.Scalar(p.clip(x)), nil
}

// Normalize maps x onto [0, 1] relative to the profile range, clipping
// values outside it. A degenerate range maps everything to 0.
func (p *Profile) Normalize(x float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	return (p.clip(x) - p.Min) / (p.Max - p.Min)
}

// HasLabel reports whether label is in the profile's label set
func (p *Profile) HasLabel(label string) bool {
	i := sort.SearchStrings(p.Labels, label)
	return i < len(p.Labels) && p.Labels[i] == label
}

func (p *Profile) clip(x float64) float64 {
	return math.Min(math.Max(x, p.Min), p.Max)
}

func (p *Profile) discrete(e Entry) (string, error) {
	v := e.Value
	switch v.Kind() {
	case graph.KindLabel:
		label, _ := v.Label()
		return ClassName(label), nil
	case graph.KindSequence:
		if v.IsEmpty() {
			return NoneLabel, nil
		}
		if label, ok := v.Item(0).Label(); ok {
			return ClassName(label), nil
		}
	}
	return "", p.mixed(e)
}

func (p *Profile) continuous(e Entry) (float64, error) {
	v := e.Value
	switch v.Kind() {
	case graph.KindScalar:
		x, _ := v.Scalar()
		return x, nil
	case graph.KindSequence:
		if x, ok := v.Mean(); ok {
			return x, nil
		}
	}
	return 0, p.mixed(e)
}

func (p *Profile) mixed(e Entry) error {
	return &MixedAttributeError{
		Attribute: p.Name,
		Scope:     p.Scope,
		Kind:      p.Kind,
		Entity:    e.Entity,
		Value:     e.Value,
	}
}

// ClassName makes a label safe to use as a class identifier by replacing
// whitespace with underscores.
func ClassName(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, label)
}
