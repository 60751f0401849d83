package ingest

import (
	"chainpress/internal/domain/content"
	"fmt"
	"strings"
	"time"
)

const DefaultTitle = "Untitled"

// Body is the text handed to the normalizer. Markdown feeds excerpt and
// reading time; HTML becomes the record content once rendered.
type Body struct {
	Markdown string
	HTML     string
	Headings []content.Heading
}

// Normalizer maps decoded metadata and a body onto typed records.
type Normalizer struct {
	// Now supplies the date of records without a usable date.
	Now           func() time.Time
	ExcerptLength int
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, ExcerptLength: ExcerptLength}
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) excerptLength() int {
	if n == nil || n.ExcerptLength <= 0 {
		return ExcerptLength
	}
	return n.ExcerptLength
}

func (n *Normalizer) meta(slug string, md Metadata, body Body) (content.Meta, []Warning) {
	var warns []Warning

	title, ok := md.String("title")
	if !ok {
		title = DefaultTitle
		warns = append(warns, Warning{Msg: "title is empty"})
	}

	// A missing or unparsable date becomes today, so re-normalizing a dateless
	// file on another day yields another date.
	date := n.now().Format(time.DateOnly)
	if t, ok := md.Time("date"); ok {
		date = t.Format(time.DateOnly)
	} else if _, present := md.lookup("date"); present {
		warns = append(warns, Warning{Msg: "unparsable date, using today"})
	}

	excerpt, ok := md.String("excerpt")
	if !ok {
		excerpt = DeriveExcerpt(body.Markdown, n.excerptLength())
	}

	html := body.HTML
	if html == "" {
		html = body.Markdown
	}

	author, _ := md.String("author")
	image, _ := md.String("image")

	return content.Meta{
		Slug:           slug,
		Title:          title,
		Date:           date,
		Author:         author,
		Tags:           content.NormalizeStrings(md.Strings("tags")),
		Image:          image,
		Excerpt:        excerpt,
		Content:        html,
		Markdown:       body.Markdown,
		Headings:       body.Headings,
		ReadingMinutes: ReadingMinutes(body.Markdown),
	}, warns
}

func difficultyOf(md Metadata) (content.Difficulty, []Warning) {
	raw, ok := md.String("difficulty", "level")
	if !ok {
		return "", nil
	}
	d, ok := content.ParseDifficulty(raw)
	if !ok {
		return "", []Warning{{Msg: fmt.Sprintf("unknown difficulty %q ignored", raw)}}
	}
	return d, nil
}

func (n *Normalizer) NormalizePost(slug string, md Metadata, body Body) (content.Post, []Warning) {
	meta, warns := n.meta(slug, md, body)
	diff, dw := difficultyOf(md)
	warns = append(warns, dw...)

	github, _ := md.String("github")
	p := content.Post{
		Meta:       meta,
		GitHub:     github,
		Blockchain: content.NormalizeStrings(md.Strings("blockchain")),
		Difficulty: diff,
	}
	for _, field := range content.InvalidFields(p.Validate()) {
		warns = append(warns, Warning{Msg: "dropped invalid " + field})
		switch field {
		case "github":
			p.GitHub = ""
		case "difficulty":
			p.Difficulty = ""
		}
	}
	return p, warns
}

func (n *Normalizer) NormalizeTutorial(slug string, md Metadata, body Body) (content.Tutorial, []Warning) {
	meta, warns := n.meta(slug, md, body)
	diff, dw := difficultyOf(md)
	warns = append(warns, dw...)
	if diff == "" {
		diff = content.Beginner
	}

	github, _ := md.String("github")
	estimated, _ := md.String("estimatedTime", "estimated_time", "duration")
	category, _ := md.String("category")
	t := content.Tutorial{
		Meta:          meta,
		Difficulty:    diff,
		EstimatedTime: estimated,
		Prerequisites: content.NormalizeStrings(md.Strings("prerequisites")),
		GitHub:        github,
		Blockchain:    content.NormalizeStrings(md.Strings("blockchain")),
		Category:      category,
	}
	warns = append(warns, fixTutorial(&t, t.Validate())...)
	return t, warns
}

func fixTutorial(t *content.Tutorial, err error) []Warning {
	var warns []Warning
	for _, field := range content.InvalidFields(err) {
		switch field {
		case "github":
			t.GitHub = ""
		case "difficulty":
			t.Difficulty = content.Beginner
		default:
			continue
		}
		warns = append(warns, Warning{Msg: "dropped invalid " + field})
	}
	return warns
}

func (n *Normalizer) NormalizeCourse(slug string, md Metadata, body Body) (content.Course, []Warning) {
	t, warns := n.NormalizeTutorial(slug, md, body)
	c := content.Course{Tutorial: t}

	if ch, ok := md.Int("chapters"); ok {
		c.Chapters = ch
	} else if _, present := md.lookup("chapters"); present {
		warns = append(warns, Warning{Msg: "chapters is not an integer"})
	}
	if price, ok := md.Float("price"); ok {
		c.Price = price
	} else if raw, present := md.String("price"); present && !strings.EqualFold(raw, "free") {
		warns = append(warns, Warning{Msg: "price is not a number"})
	}

	for _, field := range content.InvalidFields(c.Validate()) {
		switch field {
		case "chapters":
			c.Chapters = 0
		case "price":
			c.Price = 0
		default:
			continue
		}
		warns = append(warns, Warning{Msg: "dropped invalid " + field})
	}
	return c, warns
}

func (n *Normalizer) NormalizePage(slug string, md Metadata, body Body) (content.Page, []Warning) {
	var warns []Warning
	title, ok := md.String("title")
	if !ok {
		title = DefaultTitle
		warns = append(warns, Warning{Msg: "title is empty"})
	}
	var updated string
	if t, ok := md.Time("lastUpdated", "last_updated", "updated"); ok {
		updated = t.Format(time.DateOnly)
	} else {
		updated, _ = md.String("lastUpdated", "last_updated", "updated")
	}
	author, _ := md.String("author")

	html := body.HTML
	if html == "" {
		html = body.Markdown
	}
	return content.Page{
		Slug:        slug,
		Title:       title,
		Content:     html,
		LastUpdated: updated,
		Author:      author,
		Headings:    body.Headings,
	}, warns
}
