package ingest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// AliasTable maps alternate names to canonical entity identities. Lookups
// are case-insensitive and every canonical name resolves to itself. The
// table is read-only once built and safe to share between goroutines.
type AliasTable struct {
	canonical map[string]string
	synonyms  map[string][]string
	maxWords  int
}

// NewAliasTable builds a table from an alias -> canonical mapping
func NewAliasTable(aliases map[string]string) *AliasTable {
	t := &AliasTable{
		canonical: make(map[string]string, len(aliases)),
		synonyms:  make(map[string][]string),
	}
	// sorted so synonym lists do not depend on map iteration
	keys := make([]string, 0, len(aliases))
	for alias := range aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	for _, alias := range keys {
		t.Add(alias, aliases[alias])
	}
	return t
}

// Add registers alias as another name for canonical. The canonical name is
// registered for itself as well. An alias that already resolves elsewhere
// keeps its first target.
func (t *AliasTable) Add(alias, canonical string) {
	c := graph.Canonical(canonical)
	if c == "" {
		return
	}
	t.register(lookupKey(c), c)
	t.register(lookupKey(alias), c)
}

// lookupKey canonicalises a name and collapses inner whitespace
func lookupKey(name string) string {
	return strings.Join(strings.Fields(graph.Canonical(name)), " ")
}

func (t *AliasTable) register(alias, canonical string) {
	if alias == "" {
		return
	}
	if _, exists := t.canonical[alias]; exists {
		return
	}
	t.canonical[alias] = canonical
	if alias != lookupKey(canonical) {
		t.synonyms[canonical] = append(t.synonyms[canonical], alias)
	}
	if n := len(strings.Fields(alias)); n > t.maxWords {
		t.maxWords = n
	}
}

// Resolve returns the canonical identity for name
func (t *AliasTable) Resolve(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.canonical[lookupKey(name)]
	return c, ok
}

// Synonyms returns the alternate names registered for a canonical identity
func (t *AliasTable) Synonyms(canonical string) []string {
	s := t.synonyms[graph.Canonical(canonical)]
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

// Canonicals returns every canonical identity, sorted
func (t *AliasTable) Canonicals() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.canonical {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of resolvable names, canonical ones included
func (t *AliasTable) Len() int {
	return len(t.canonical)
}

// MaxWords is the word count of the longest registered name
func (t *AliasTable) MaxWords() int {
	return t.maxWords
}

// LoadAliases reads an alias table from YAML (or JSON). Two shapes are
// accepted per entry: `alias: canonical` and `canonical: [alias, ...]`.
func LoadAliases(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases decodes the format accepted by LoadAliases
func ParseAliases(data []byte) (*AliasTable, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := NewAliasTable(nil)
	for _, key := range keys {
		node := raw[key]
		switch node.Kind {
		case yaml.ScalarNode:
			t.Add(key, node.Value)
		case yaml.SequenceNode:
			var names []string
			if err := node.Decode(&names); err != nil {
				return nil, fmt.Errorf("parse aliases: %q: %w", key, err)
			}
			t.Add(key, key)
			for _, alias := range names {
				t.Add(alias, key)
			}
		default:
			return nil, fmt.Errorf("parse aliases: %q: expected a name or a list of names", key)
		}
	}
	return t, nil
}
