package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reNonWord = regexp.MustCompile(`[^a-z0-9\s]`)
	reSpaces  = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// NormalizeAnswer lowercases a free-text answer, replaces every
// non-alphanumeric character with a space and collapses whitespace.
// Two answers that normalize equal are treated as the same response.
func NormalizeAnswer(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TitleCase renders an unmapped answer for manual review.
func TitleCase(input string) string {
	return titleCaser.String(input)
}
