package inference

import (
	"fmt"
	"strings"
)

// Describe renders a ClassificationResult as a one-line human-readable
// summary, e.g.
//
//	Apple Device (High confidence) [Methods: MAC OUI, Port Analysis]
//
// Method tags are deduplicated here, at display time; the structured
// result keeps every firing in scoring order.
func Describe(r ClassificationResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s confidence)", r.Label, r.Tier)

	if methods := dedupeMethods(r.Methods); len(methods) > 0 {
		fmt.Fprintf(&sb, " [Methods: %s]", strings.Join(methods, ", "))
	}
	return sb.String()
}

// dedupeMethods removes repeated tags while preserving first-seen order.
func dedupeMethods(methods []string) []string {
	seen := make(map[string]bool, len(methods))
	var out []string
	for _, m := range methods {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
