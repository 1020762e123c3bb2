package ingest

import (
	"strings"
	"unicode"
)

// DetectMentions finds the entities named in content. Names are matched on
// word boundaries, longest first, against every name in the alias table.
// The result holds canonical identities without duplicates, in order of
// first mention.
func DetectMentions(content string, aliases *AliasTable) []string {
	if aliases == nil || aliases.Len() == 0 {
		return nil
	}
	words := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'')
	})

	seen := make(map[string]bool)
	var found []string
	maxWords := aliases.MaxWords()
	for i := 0; i < len(words); {
		matched := 0
		for n := min(maxWords, len(words)-i); n >= 1; n-- {
			c, ok := aliases.Resolve(strings.Join(words[i:i+n], " "))
			if !ok {
				continue
			}
			if !seen[c] {
				seen[c] = true
				found = append(found, c)
			}
			matched = n
			break
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}
	return found
}
