package domain

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// NormalizeText normalizes free text for matching across the application:
// lowercase, trim, non-alphanumeric characters replaced with a space, and
// whitespace runs collapsed to a single space. Used for description/label
// matching and card-member comparisons, which must all agree on one rule.
func NormalizeText(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = nonAlphanumeric.ReplaceAllString(normalized, " ")
	normalized = whitespaceRuns.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}
