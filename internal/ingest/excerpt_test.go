package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveExcerptFromFencedBody(t *testing.T) {
	body := "---\n" +
		"```js\nconst secret = 1;\n```\n\n" +
		strings.Repeat("Lorem ipsum dolor sit amet. ", 20)

	got := DeriveExcerpt(body, 0)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "---")
	assert.True(t, strings.HasPrefix(got, "Lorem ipsum"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLength+len(ExcerptSuffix))
}

func TestDeriveExcerptShortBody(t *testing.T) {
	assert.Equal(t, "Short text....", DeriveExcerpt("Short\n\ntext.", 150))
	assert.Equal(t, "", DeriveExcerpt("```\nonly code\n```", 150))
	assert.Equal(t, "", DeriveExcerpt("  \n ", 150))
}

func TestDeriveExcerptRunes(t *testing.T) {
	got := DeriveExcerpt(strings.Repeat("é", 200), 10)
	assert.Equal(t, strings.Repeat("é", 10)+"...", got)
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadingMinutes(""))
	assert.Equal(t, 1, ReadingMinutes(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingMinutes(strings.Repeat("word ", 201)))
	assert.Equal(t, 1, ReadingMinutes("```\n"+strings.Repeat("code ", 500)+"\n```\nhi"))
}

func TestDeriveExcerptSkipsLeadingCode(t *testing.T) {
	assert.Equal(t, "Hello world...", DeriveExcerpt("```js\ncode\n```\nHello world", ExcerptLength))
}
