// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an e-mail address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Tags trims each tag, drops empties and de-duplicates, preserving first-seen order.
// A nil or empty input yields an empty, non-nil slice.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// CSV splits a comma separated query value into normalised tags.
func CSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Tags(strings.Split(s, ","))
}
