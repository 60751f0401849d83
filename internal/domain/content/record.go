package content

import (
	"strings"
)

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Meta holds the fields shared by posts, tutorials and courses.
type Meta struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Author  string   `json:"author,omitempty"`
	Tags    []string `json:"tags"`
	Image   string   `json:"image,omitempty"`
	Excerpt string   `json:"excerpt"`
	// Content is rendered HTML once a record leaves the loader.
	Content string `json:"content"`
	// Markdown is the source body; text search matches it instead of the
	// rendered markup.
	Markdown string `json:"-"`

	Headings       []Heading `json:"headings,omitempty"`
	ReadingMinutes int       `json:"readingMinutes,omitempty"`
}

type Post struct {
	Meta
	GitHub     string     `json:"github,omitempty"`
	Blockchain []string   `json:"blockchain"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

type Tutorial struct {
	Meta
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedTime string     `json:"estimatedTime,omitempty"`
	Prerequisites []string   `json:"prerequisites"`
	GitHub        string     `json:"github,omitempty"`
	Blockchain    []string   `json:"blockchain"`
	Category      string     `json:"category,omitempty"`
}

type Course struct {
	Tutorial
	Chapters int     `json:"chapters,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// IsFree reports whether the course has no price set.
func (c Course) IsFree() bool {
	return c.Price <= 0
}

type Page struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated string    `json:"lastUpdated,omitempty"`
	Author      string    `json:"author,omitempty"`
	Headings    []Heading `json:"headings,omitempty"`
}

// Entry is a record that takes part in cross-category queries. The concrete
// value is one of Post, Tutorial or Course.
type Entry interface {
	Kind() Category
	Base() Meta
	Technologies() []string
	Level() Difficulty
}

func (p Post) Kind() Category         { return CategoryPost }
func (p Post) Base() Meta             { return p.Meta }
func (p Post) Technologies() []string { return p.Blockchain }
func (p Post) Level() Difficulty      { return p.Difficulty }

func (t Tutorial) Kind() Category         { return CategoryTutorial }
func (t Tutorial) Base() Meta             { return t.Meta }
func (t Tutorial) Technologies() []string { return t.Blockchain }
func (t Tutorial) Level() Difficulty      { return t.Difficulty }

func (c Course) Kind() Category { return CategoryCourse }

// HasTag reports a case-insensitive exact match against any tag.
func HasTag(e Entry, tag string) bool {
	return containsFold(e.Base().Tags, tag)
}

// HasTechnology reports a case-insensitive exact match against any
// technology label.
func HasTechnology(e Entry, tech string) bool {
	return containsFold(e.Technologies(), tech)
}

func containsFold(items []string, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	for _, item := range items {
		if strings.EqualFold(strings.TrimSpace(item), want) {
			return true
		}
	}
	return false
}

// NormalizeStrings trims items, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and the original order.
func NormalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
