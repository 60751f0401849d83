package ingest

import (
	"testing"
	"time"

	"chainpress/internal/domain/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNormalizer(day string) *Normalizer {
	now, _ := time.Parse(time.DateOnly, day)
	return &Normalizer{Now: func() time.Time { return now }, ExcerptLength: ExcerptLength}
}

func parse(t *testing.T, raw string) (Metadata, Body) {
	t.Helper()
	meta, body, err := ParseFrontMatter([]byte(raw))
	require.NoError(t, err)
	return meta, Body{Markdown: string(body)}
}

func TestNormalizePostDefaults(t *testing.T) {
	n := fixedNormalizer("2025-01-15")
	meta, body := parse(t, "Some body text without metadata.")

	p, warns := n.NormalizePost("bare", meta, body)
	assert.Equal(t, "bare", p.Slug)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, "2025-01-15", p.Date)
	assert.Equal(t, "Some body text without metadata....", p.Excerpt)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, []string{}, p.Blockchain)
	assert.Empty(t, p.Difficulty)
	assert.Equal(t, body.Markdown, p.Content)
	assert.Equal(t, 1, p.ReadingMinutes)
	require.Len(t, warns, 1)
	assert.Equal(t, "title is empty", warns[0].Msg)
}

func TestNormalizePostFields(t *testing.T) {
	n := fixedNormalizer("2025-01-15")
	meta, body := parse(t, `---
title: Gas Optimization
date: 2024-02-10
author: Ada
tags: [Solidity, gas, solidity]
excerpt: Hand written.
image: /img/gas.png
github: https://github.com/example/gas
blockchain: Ethereum
difficulty: Advanced
---
Body`)
	body.HTML = "<p>Body</p>\n"

	p, warns := n.NormalizePost("gas", meta, body)
	assert.Empty(t, warns)
	assert.Equal(t, "Gas Optimization", p.Title)
	assert.Equal(t, "2024-02-10", p.Date)
	assert.Equal(t, "Ada", p.Author)
	assert.Equal(t, []string{"Solidity", "gas"}, p.Tags)
	assert.Equal(t, "Hand written.", p.Excerpt)
	assert.Equal(t, "/img/gas.png", p.Image)
	assert.Equal(t, "https://github.com/example/gas", p.GitHub)
	assert.Equal(t, []string{"Ethereum"}, p.Blockchain)
	assert.Equal(t, content.Advanced, p.Difficulty)
	assert.Equal(t, "<p>Body</p>\n", p.Content)
}

func TestNormalizePostDropsInvalid(t *testing.T) {
	n := fixedNormalizer("2025-01-15")
	meta, body := parse(t, "---\ntitle: T\ndate: 2024-01-01\ngithub: not a url\ndifficulty: expert\n---\nx")

	p, warns := n.NormalizePost("t", meta, body)
	assert.Empty(t, p.GitHub)
	assert.Empty(t, p.Difficulty)
	msgs := make([]string, 0, len(warns))
	for _, w := range warns {
		msgs = append(msgs, w.Msg)
	}
	assert.Contains(t, msgs, `unknown difficulty "expert" ignored`)
	assert.Contains(t, msgs, "dropped invalid github")
}

func TestNormalizeIdempotentWithDate(t *testing.T) {
	raw := "---\ntitle: Stable\ndate: 2023-06-01\ntags: [a]\n---\nBody text."
	meta, body := parse(t, raw)

	first, _ := fixedNormalizer("2025-01-01").NormalizeTutorial("s", meta, body)
	second, _ := fixedNormalizer("2026-07-04").NormalizeTutorial("s", meta, body)
	assert.Equal(t, first, second)
}

func TestNormalizeDatelessFollowsClock(t *testing.T) {
	meta, body := parse(t, "---\ntitle: Undated\n---\nBody")

	first, _ := fixedNormalizer("2025-01-01").NormalizePost("u", meta, body)
	second, _ := fixedNormalizer("2025-01-02").NormalizePost("u", meta, body)
	assert.Equal(t, "2025-01-01", first.Date)
	assert.Equal(t, "2025-01-02", second.Date)
}

func TestNormalizeUnparsableDate(t *testing.T) {
	meta, body := parse(t, "---\ntitle: Odd\ndate: someday\n---\nBody")
	p, warns := fixedNormalizer("2025-03-03").NormalizePost("odd", meta, body)
	assert.Equal(t, "2025-03-03", p.Date)
	require.Len(t, warns, 1)
	assert.Equal(t, "unparsable date, using today", warns[0].Msg)
}

func TestNormalizeTutorial(t *testing.T) {
	meta, body := parse(t, `---
title: Build a DEX
date: 2024-04-01
estimated_time: 3 hours
prerequisites: [Solidity basics, Hardhat]
category: defi
---
Body`)
	tut, warns := fixedNormalizer("2025-01-01").NormalizeTutorial("dex", meta, body)
	assert.Empty(t, warns)
	assert.Equal(t, content.Beginner, tut.Difficulty)
	assert.Equal(t, "3 hours", tut.EstimatedTime)
	assert.Equal(t, []string{"Solidity basics", "Hardhat"}, tut.Prerequisites)
	assert.Equal(t, "defi", tut.Category)
	assert.Equal(t, content.CategoryTutorial, tut.Kind())
}

func TestNormalizeCourse(t *testing.T) {
	meta, body := parse(t, `---
title: Solana Bootcamp
date: 2024-05-01
difficulty: intermediate
chapters: 12
price: 49.5
blockchain: [Solana]
---
Body`)
	c, warns := fixedNormalizer("2025-01-01").NormalizeCourse("bootcamp", meta, body)
	assert.Empty(t, warns)
	assert.Equal(t, 12, c.Chapters)
	assert.InDelta(t, 49.5, c.Price, 1e-9)
	assert.Equal(t, content.Intermediate, c.Difficulty)
	assert.Equal(t, []string{"Solana"}, c.Blockchain)
	assert.Equal(t, content.CategoryCourse, c.Kind())
	assert.False(t, c.IsFree())
}

func TestNormalizeCourseInvalidNumbers(t *testing.T) {
	meta, body := parse(t, "---\ntitle: C\ndate: 2024-05-01\nchapters: many\nprice: -10\n---\nBody")
	c, warns := fixedNormalizer("2025-01-01").NormalizeCourse("c", meta, body)
	assert.Equal(t, 0, c.Chapters)
	assert.Equal(t, 0.0, c.Price)
	msgs := []string{}
	for _, w := range warns {
		msgs = append(msgs, w.Msg)
	}
	assert.Contains(t, msgs, "chapters is not an integer")
	assert.Contains(t, msgs, "dropped invalid price")

	meta, body = parse(t, "---\ntitle: C\ndate: 2024-05-01\nprice: free\n---\nBody")
	c, warns = fixedNormalizer("2025-01-01").NormalizeCourse("c", meta, body)
	assert.Empty(t, warns)
	assert.True(t, c.IsFree())
}

func TestNormalizePage(t *testing.T) {
	meta, body := parse(t, "---\ntitle: About\nlastUpdated: 2024-09-09\nauthor: Team\n---\nWho we are.")
	body.HTML = "<p>Who we are.</p>"
	p, warns := fixedNormalizer("2025-01-01").NormalizePage("about", meta, body)
	assert.Empty(t, warns)
	assert.Equal(t, content.Page{
		Slug:        "about",
		Title:       "About",
		Content:     "<p>Who we are.</p>",
		LastUpdated: "2024-09-09",
		Author:      "Team",
	}, p)
}
