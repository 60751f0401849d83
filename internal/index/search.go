package index

import (
	"chainpress/internal/domain/content"
	"context"
	"golang.org/x/sync/errgroup"
	"sort"
	"strings"
	"time"
)

// All returns posts, tutorials and courses, each sorted by date, concatenated
// in that order. The three listings load concurrently.
func (l *Library) All(ctx context.Context) ([]content.Entry, error) {
	var (
		posts     []content.Post
		tutorials []content.Tutorial
		courses   []content.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = l.Posts(gctx)
		return err
	})
	g.Go(func() (err error) {
		tutorials, err = l.Tutorials(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses, err = l.Courses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]content.Entry, 0, len(posts)+len(tutorials)+len(courses))
	for _, p := range posts {
		out = append(out, p)
	}
	for _, t := range tutorials {
		out = append(out, t)
	}
	for _, c := range courses {
		out = append(out, c)
	}
	return out, nil
}

func (l *Library) filter(ctx context.Context, keep func(content.Entry) bool) ([]content.Entry, error) {
	all, err := l.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]content.Entry, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// FilterByTag keeps entries with a tag equal to tag, ignoring case.
func (l *Library) FilterByTag(ctx context.Context, tag string) ([]content.Entry, error) {
	return l.filter(ctx, func(e content.Entry) bool { return content.HasTag(e, tag) })
}

// FilterByTechnology keeps entries with a blockchain label equal to tech,
// ignoring case.
func (l *Library) FilterByTechnology(ctx context.Context, tech string) ([]content.Entry, error) {
	return l.filter(ctx, func(e content.Entry) bool { return content.HasTechnology(e, tech) })
}

// FilterByDifficulty keeps entries of exactly level d. Entries without a
// difficulty never match.
func (l *Library) FilterByDifficulty(ctx context.Context, d content.Difficulty) ([]content.Entry, error) {
	return l.filter(ctx, func(e content.Entry) bool { return d != "" && e.Level() == d })
}

// Search keeps entries whose title, markdown body or any tag contains q,
// ignoring case. Rendered HTML is never matched. Union order is preserved. A
// blank query matches nothing.
func (l *Library) Search(ctx context.Context, q string) ([]content.Entry, error) {
	term := strings.ToLower(strings.TrimSpace(q))
	if term == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []content.Entry{}, nil
	}
	return l.filter(ctx, func(e content.Entry) bool {
		m := e.Base()
		if strings.Contains(strings.ToLower(m.Title), term) || strings.Contains(strings.ToLower(m.Markdown), term) {
			return true
		}
		for _, t := range m.Tags {
			if strings.Contains(strings.ToLower(t), term) {
				return true
			}
		}
		return false
	})
}

type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortTitle     SortBy = "title"
)

type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// Filter drives the faceted search page.
type Filter struct {
	Text string
	// Types limits the categories searched; empty means all of them.
	Types      []content.Category
	Difficulty content.Difficulty
	Technology string
	Range      DateRange
	Sort       SortBy
	Page       int
	PerPage    int
}

type ResultPage struct {
	Items      []content.Entry
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	// Technologies lists every technology label across all entries, for the
	// filter drop-down.
	Technologies []string
}

// Query runs the faceted search: category, difficulty, technology and date
// range filters, a text match over title, excerpt, tags, technologies and
// author, a sort and a page window.
func (l *Library) Query(ctx context.Context, f Filter) (ResultPage, error) {
	all, err := l.All(ctx)
	if err != nil {
		return ResultPage{}, err
	}

	types := make(map[content.Category]bool, len(f.Types))
	for _, t := range f.Types {
		types[t] = true
	}
	term := strings.ToLower(strings.TrimSpace(f.Text))
	since := l.since(f.Range)

	results := make([]content.Entry, 0, len(all))
	for _, e := range all {
		if len(types) > 0 && !types[e.Kind()] {
			continue
		}
		if f.Difficulty != "" && e.Level() != f.Difficulty {
			continue
		}
		if tech := strings.TrimSpace(f.Technology); tech != "" && !strings.EqualFold(tech, string(RangeAll)) && !content.HasTechnology(e, tech) {
			continue
		}
		if since != "" && e.Base().Date < since {
			continue
		}
		if term != "" && !strings.Contains(searchableText(e), term) {
			continue
		}
		results = append(results, e)
	}

	switch f.Sort {
	case SortDate:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Base().Date > results[j].Base().Date
		})
	case SortTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Base().Title) < strings.ToLower(results[j].Base().Title)
		})
	default:
		if term != "" {
			sort.SliceStable(results, func(i, j int) bool {
				return titleHit(results[i], term) && !titleHit(results[j], term)
			})
		}
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = l.opt.PageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	total := len(results)
	l.logger.Debug("query", "text", f.Text, "total", total, "page", page)
	start := (page - 1) * perPage
	items := []content.Entry{}
	if start < total {
		items = results[start:min(start+perPage, total)]
	}
	return ResultPage{
		Items:        items,
		Page:         page,
		PerPage:      perPage,
		Total:        total,
		TotalPages:   (total + perPage - 1) / perPage,
		Technologies: technologies(all),
	}, nil
}

func (l *Library) since(r DateRange) string {
	now := l.opt.Now()
	var limit time.Time
	switch r {
	case RangeWeek:
		limit = now.AddDate(0, 0, -7)
	case RangeMonth:
		limit = now.AddDate(0, -1, 0)
	case RangeYear:
		limit = now.AddDate(-1, 0, 0)
	default:
		return ""
	}
	return limit.Format(time.DateOnly)
}

func searchableText(e content.Entry) string {
	m := e.Base()
	parts := []string{m.Title, m.Excerpt, strings.Join(m.Tags, " "), strings.Join(e.Technologies(), " "), m.Author}
	return strings.ToLower(strings.Join(parts, " "))
}

func titleHit(e content.Entry, term string) bool {
	return strings.Contains(strings.ToLower(e.Base().Title), term)
}

func technologies(all []content.Entry) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range all {
		for _, t := range e.Technologies() {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// QuickHit is one suggestion of the global search box.
type QuickHit struct {
	Kind    content.Category `json:"type"`
	Slug    string           `json:"slug"`
	Title   string           `json:"title"`
	Excerpt string           `json:"excerpt,omitempty"`
}

// QuickSearch matches q against titles and excerpts and returns at most
// limit hits; limit <= 0 means 5.
func (l *Library) QuickSearch(ctx context.Context, q string, limit int) ([]QuickHit, error) {
	term := strings.ToLower(strings.TrimSpace(q))
	if term == "" {
		return []QuickHit{}, nil
	}
	if limit <= 0 {
		limit = defaultQuick
	}
	matches, err := l.filter(ctx, func(e content.Entry) bool {
		m := e.Base()
		return strings.Contains(strings.ToLower(m.Title), term) || strings.Contains(strings.ToLower(m.Excerpt), term)
	})
	if err != nil {
		return nil, err
	}
	out := make([]QuickHit, 0, min(limit, len(matches)))
	for _, e := range matches {
		if len(out) == limit {
			break
		}
		m := e.Base()
		out = append(out, QuickHit{Kind: e.Kind(), Slug: m.Slug, Title: m.Title, Excerpt: m.Excerpt})
	}
	return out, nil
}
