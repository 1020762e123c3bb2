// Package category propagates coarse root-category labels onto graph nodes.
package category

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Other is the label of nodes no rule matches
const Other = "Other"

// Rule maps one raw source category to a coarse label
type Rule struct {
	Category string
	Label    string
}

// Mapping is an ordered rule list. When a node matches several rules the
// one declared first wins, so labels never depend on map iteration.
type Mapping struct {
	Name  string
	rules []Rule
	index map[string]int
}

// NewMapping builds a mapping from rules in declaration order. A category
// declared twice keeps its first rule.
func NewMapping(name string, rules []Rule) *Mapping {
	m := &Mapping{Name: name, index: make(map[string]int, len(rules))}
	for _, r := range rules {
		key := foldCategory(r.Category)
		if key == "" {
			continue
		}
		if _, dup := m.index[key]; dup {
			continue
		}
		m.index[key] = len(m.rules)
		m.rules = append(m.rules, r)
	}
	return m
}

// Rules returns the rules in declaration order
func (m *Mapping) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

// Labels returns the distinct coarse labels in order of first declaration,
// followed by Other.
func (m *Mapping) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range m.rules {
		if !seen[r.Label] {
			seen[r.Label] = true
			out = append(out, r.Label)
		}
	}
	if !seen[Other] {
		out = append(out, Other)
	}
	return out
}

// Lookup returns the label of the earliest declared rule matching any of
// the categories, or Other. Matching ignores case and surrounding space.
func (m *Mapping) Lookup(categories []string) string {
	best := -1
	for _, c := range categories {
		i, ok := m.index[foldCategory(c)]
		if ok && (best < 0 || i < best) {
			best = i
		}
	}
	if best < 0 {
		return Other
	}
	return m.rules[best].Label
}

func foldCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// UnmarshalYAML decodes a YAML mapping of category: label pairs, keeping
// declaration order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: category mapping must be a mapping of category: label", node.Line)
	}
	rules := make([]Rule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: label for %q must be a string", value.Line, key.Value)
		}
		rules = append(rules, Rule{Category: key.Value, Label: value.Value})
	}
	*m = *NewMapping(m.Name, rules)
	return nil
}

// LoadMappings reads named mapping axes (e.g. effects, mechanisms) from a
// YAML file.
func LoadMappings(path string) (map[string]*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category mappings: %w", err)
	}
	return ParseMappings(data)
}

// ParseMappings decodes the format read by LoadMappings
func ParseMappings(data []byte) (map[string]*Mapping, error) {
	var raw map[string]*Mapping
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse category mappings: %w", err)
	}
	for name, m := range raw {
		if m == nil {
			m = NewMapping(name, nil)
			raw[name] = m
		}
		m.Name = name
	}
	return raw, nil
}

// AxisNames returns the axis names of a mapping set, sorted
func AxisNames(axes map[string]*Mapping) []string {
	names := make([]string, 0, len(axes))
	for name := range axes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
