package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ExcerptLength  = 150
	ExcerptSuffix  = "..."
	wordsPerMinute = 200
)

var (
	fencedCode      = regexp.MustCompile("(?s)(```|~~~).*?(```|~~~)")
	leadingFence    = regexp.MustCompile(`(?s)\A\s*(---|\+\+\+)[ \t]*\n.*?\n(---|\+\+\+)[ \t]*(\n|\z)`)
	leadingRuleLine = regexp.MustCompile(`\A\s*(---|\+\+\+)[ \t]*(\n|\z)`)
)

// plainText strips fenced code blocks and leading frontmatter remnants from
// a markdown body and collapses whitespace.
func plainText(markdown string) string {
	s := strings.ReplaceAll(markdown, "\r\n", "\n")
	s = leadingFence.ReplaceAllString(s, "")
	for leadingRuleLine.MatchString(s) {
		s = leadingRuleLine.ReplaceAllString(s, "")
	}
	s = fencedCode.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// DeriveExcerpt builds an excerpt from the markdown body: the first limit
// characters of its plain text followed by the ellipsis marker. It works on
// markdown, never on rendered HTML, so the cut cannot land inside a tag.
func DeriveExcerpt(markdown string, limit int) string {
	if limit <= 0 {
		limit = ExcerptLength
	}
	text := plainText(markdown)
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) > limit {
		text = strings.TrimSpace(string([]rune(text)[:limit]))
	}
	return text + ExcerptSuffix
}

// ReadingMinutes estimates reading time of the body's prose, at least one
// minute.
func ReadingMinutes(markdown string) int {
	words := len(strings.Fields(plainText(markdown)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
