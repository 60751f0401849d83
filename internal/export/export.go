package export

import (
	"chainpress/internal/domain/content"
	"chainpress/internal/domain/site"
	"chainpress/internal/index"
	"chainpress/internal/logging"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Exporter struct {
	Library *index.Library
	Dir     string
	Pretty  bool
	Logger  logging.Logger
}

type Result struct {
	Files []site.Route
	Stats index.Stats
}

// SearchItem is one row of search.json.
type SearchItem struct {
	Type       content.Category   `json:"contentType"`
	Slug       string             `json:"slug"`
	Title      string             `json:"title"`
	Date       string             `json:"date"`
	Excerpt    string             `json:"excerpt"`
	Tags       []string           `json:"tags"`
	Blockchain []string           `json:"blockchain"`
	Difficulty content.Difficulty `json:"difficulty,omitempty"`
	Author     string             `json:"author,omitempty"`
}

func (x *Exporter) logger() logging.Logger {
	if x.Logger == nil {
		return logging.NoOp()
	}
	return x.Logger
}

// Run writes listings, one file per record, the search index, stats and
// taxonomy under Dir. Records that fail to load are left out, as they are
// from listings.
func (x *Exporter) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(x.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir export: %w", err)
	}
	res := &Result{}

	posts, err := x.Library.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("export posts: %w", err)
	}
	tutorials, err := x.Library.Tutorials(ctx)
	if err != nil {
		return nil, fmt.Errorf("export tutorials: %w", err)
	}
	courses, err := x.Library.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("export courses: %w", err)
	}
	pages, err := x.Library.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("export pages: %w", err)
	}

	lists := map[content.Category]any{
		content.CategoryPost:     posts,
		content.CategoryTutorial: tutorials,
		content.CategoryCourse:   courses,
	}
	for _, r := range ListRoutes() {
		if err := x.write(res, r, lists[content.Category(r.Category)]); err != nil {
			return nil, err
		}
	}

	if err := writeEach(x, res, content.CategoryPost, posts, func(p content.Post) string { return p.Slug }); err != nil {
		return nil, err
	}
	if err := writeEach(x, res, content.CategoryTutorial, tutorials, func(t content.Tutorial) string { return t.Slug }); err != nil {
		return nil, err
	}
	if err := writeEach(x, res, content.CategoryCourse, courses, func(c content.Course) string { return c.Slug }); err != nil {
		return nil, err
	}
	if err := writeEach(x, res, content.CategoryPage, pages, func(p content.Page) string { return p.Slug }); err != nil {
		return nil, err
	}

	search := make([]SearchItem, 0, len(posts)+len(tutorials)+len(courses))
	for _, p := range posts {
		search = append(search, searchItem(p))
	}
	for _, t := range tutorials {
		search = append(search, searchItem(t))
	}
	for _, c := range courses {
		search = append(search, searchItem(c))
	}

	res.Stats = index.Stats{Posts: len(posts), Tutorials: len(tutorials), Courses: len(courses), Pages: len(pages)}
	tax, err := x.Library.Taxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("export taxonomy: %w", err)
	}

	for _, r := range indexRoutes() {
		var v any
		switch r.Kind {
		case site.RouteSearch:
			v = search
		case site.RouteStats:
			v = res.Stats
		case site.RouteTaxonomy:
			v = tax
		}
		if err := x.write(res, r, v); err != nil {
			return nil, err
		}
	}

	x.logger().Info("export complete", "dir", x.Dir, "files", len(res.Files))
	return res, nil
}

func writeEach[T any](x *Exporter, res *Result, c content.Category, items []T, slugOf func(T) string) error {
	slugs := make([]string, len(items))
	for i, it := range items {
		slugs[i] = slugOf(it)
	}
	for i, r := range EntryRoutes(c, slugs) {
		if err := x.write(res, r, items[i]); err != nil {
			return err
		}
	}
	return nil
}

func searchItem(e content.Entry) SearchItem {
	m := e.Base()
	return SearchItem{
		Type:       e.Kind(),
		Slug:       m.Slug,
		Title:      m.Title,
		Date:       m.Date,
		Excerpt:    m.Excerpt,
		Tags:       m.Tags,
		Blockchain: e.Technologies(),
		Difficulty: e.Level(),
		Author:     m.Author,
	}
}

func (x *Exporter) write(res *Result, r site.Route, v any) error {
	var (
		data []byte
		err  error
	)
	if x.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.OutPath, err)
	}
	if err := writeFile(x.Dir, r.OutPath, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", r.OutPath, err)
	}
	x.logger().Debug("wrote export file", "route", r.String())
	res.Files = append(res.Files, r)
	return nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
