// Package compare wraps go-cmp with the equality semantics used for
// desired-versus-live checks: nil and empty collections are the same,
// and diffs render as single-line details.
package compare

import (
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func Equal(expected, actual any) bool {
	return cmp.Equal(expected, actual, cmpopts.EquateEmpty())
}

// Diff returns a human-readable description of what differs, flattened
// to one line for report details. Empty when the values are equal.
func Diff(expected, actual any) string {
	diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty())
	if diff == "" {
		return ""
	}
	return Flatten(diff)
}

// Flatten collapses a multi-line cmp diff into a single line, dropping
// the unchanged-context lines.
func Flatten(diff string) string {
	var parts []string
	for _, line := range strings.Split(diff, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "-") {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return strings.Join(strings.Fields(diff), " ")
	}
	return strings.Join(parts, " ")
}
