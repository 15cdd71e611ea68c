package ingredient

import "strings"

// Normalize splits raw ingredient text on commas and returns the trimmed,
// non-empty tokens in their original order. Duplicates are kept and casing
// is left untouched. Blank input yields an empty slice.
func Normalize(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
