package index

import (
	"chainpress/internal/domain/content"
	domainerr "chainpress/internal/domain/errors"
	"chainpress/internal/ingest"
	"chainpress/internal/logging"
	"chainpress/internal/render"
	"context"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned, wrapped, when a slug has no file.
var ErrNotFound = domainerr.ErrContentNotFound

const (
	defaultFeatured = 3
	defaultPageSize = 12
	defaultRelated  = 3
	defaultQuick    = 5
)

type Options struct {
	Reader     *ingest.Reader
	Renderer   *render.MarkdownRenderer
	Normalizer *ingest.Normalizer
	// Cache is optional; without it every query renders again.
	Cache ingest.RenderCache
	// Logger receives load warnings; QueryLogger receives query traces and
	// defaults to Logger.
	Logger      logging.Logger
	QueryLogger logging.Logger
	Workers     int

	FeaturedLimit int
	PageSize      int
	RelatedLimit  int
	// Now anchors date range filters.
	Now func() time.Time
}

// Library answers content queries. Nothing is kept between calls apart from
// the last listing report of each category: every query reads and
// normalizes the files again.
type Library struct {
	loader *ingest.Loader
	norm   *ingest.Normalizer
	md     *render.MarkdownRenderer
	logger logging.Logger
	opt    Options

	mu      sync.Mutex
	reports map[content.Category]ingest.Report
}

func New(opt Options) *Library {
	if opt.Renderer == nil {
		opt.Renderer = render.NewMarkdownRenderer("")
	}
	if opt.Normalizer == nil {
		opt.Normalizer = ingest.NewNormalizer()
	}
	if opt.Reader == nil {
		opt.Reader = ingest.NewReader("content")
	}
	if opt.Logger == nil {
		opt.Logger = logging.NoOp()
	}
	if opt.QueryLogger == nil {
		opt.QueryLogger = opt.Logger
	}
	if opt.FeaturedLimit <= 0 {
		opt.FeaturedLimit = defaultFeatured
	}
	if opt.PageSize <= 0 {
		opt.PageSize = defaultPageSize
	}
	if opt.RelatedLimit <= 0 {
		opt.RelatedLimit = defaultRelated
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	loader := &ingest.Loader{
		Reader:   opt.Reader,
		Renderer: opt.Renderer,
		Cache:    opt.Cache,
		Logger:   opt.Logger,
		Workers:  opt.Workers,
	}
	return &Library{
		loader:  loader,
		norm:    opt.Normalizer,
		md:      opt.Renderer,
		logger:  opt.QueryLogger,
		opt:     opt,
		reports: make(map[content.Category]ingest.Report),
	}
}

// LoadReport returns the report of the last listing of category.
func (l *Library) LoadReport(c content.Category) (ingest.Report, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reports[c]
	return r, ok
}

func (l *Library) keep(r ingest.Report) {
	l.mu.Lock()
	l.reports[r.Category] = r
	l.mu.Unlock()
}

type normalizeFunc[T any] func(slug string, md ingest.Metadata, body ingest.Body) (T, []ingest.Warning)

func adapt[T any](fn normalizeFunc[T]) func(ingest.Document) (T, []ingest.Warning) {
	return func(d ingest.Document) (T, []ingest.Warning) {
		return fn(d.Source.Slug, d.Meta, d.Body)
	}
}

// listSorted loads a category and sorts it by descending date. Ties keep
// enumeration order.
func listSorted[T any](ctx context.Context, l *Library, c content.Category, fn normalizeFunc[T], date func(T) string) ([]T, error) {
	items, rep, err := ingest.Collect(ctx, l.loader, c, adapt(fn))
	if err != nil {
		return nil, err
	}
	l.keep(rep)
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]) > date(items[j])
	})
	return items, nil
}

func getOne[T any](ctx context.Context, l *Library, c content.Category, slug string, fn normalizeFunc[T]) (T, error) {
	var zero T
	doc, err := l.loader.LoadOne(ctx, c, slug)
	if err != nil {
		return zero, err
	}
	item, warns := fn(doc.Source.Slug, doc.Meta, doc.Body)
	log := logging.WithContent(l.opt.Logger, doc.Source.Path, string(c), doc.Source.Slug)
	for _, w := range warns {
		log.Debug(w.Msg)
	}
	return item, nil
}

func prefix[T any](items []T, n, def int) []T {
	if n <= 0 {
		n = def
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

func (l *Library) Posts(ctx context.Context) ([]content.Post, error) {
	return listSorted(ctx, l, content.CategoryPost, l.norm.NormalizePost, func(p content.Post) string { return p.Date })
}

func (l *Library) Tutorials(ctx context.Context) ([]content.Tutorial, error) {
	return listSorted(ctx, l, content.CategoryTutorial, l.norm.NormalizeTutorial, func(t content.Tutorial) string { return t.Date })
}

func (l *Library) Courses(ctx context.Context) ([]content.Course, error) {
	return listSorted(ctx, l, content.CategoryCourse, l.norm.NormalizeCourse, func(c content.Course) string { return c.Date })
}

// Pages lists static pages ordered by slug.
func (l *Library) Pages(ctx context.Context) ([]content.Page, error) {
	items, rep, err := ingest.Collect(ctx, l.loader, content.CategoryPage, adapt(l.norm.NormalizePage))
	if err != nil {
		return nil, err
	}
	l.keep(rep)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Slug < items[j].Slug })
	return items, nil
}

func (l *Library) Post(ctx context.Context, slug string) (content.Post, error) {
	return getOne(ctx, l, content.CategoryPost, slug, l.norm.NormalizePost)
}

func (l *Library) Tutorial(ctx context.Context, slug string) (content.Tutorial, error) {
	return getOne(ctx, l, content.CategoryTutorial, slug, l.norm.NormalizeTutorial)
}

func (l *Library) Course(ctx context.Context, slug string) (content.Course, error) {
	return getOne(ctx, l, content.CategoryCourse, slug, l.norm.NormalizeCourse)
}

func (l *Library) Page(ctx context.Context, slug string) (content.Page, error) {
	return getOne(ctx, l, content.CategoryPage, slug, l.norm.NormalizePage)
}

// Entry fetches one post, tutorial or course as an Entry.
func (l *Library) Entry(ctx context.Context, c content.Category, slug string) (content.Entry, error) {
	var (
		e   content.Entry
		err error
	)
	switch c {
	case content.CategoryPost:
		e, err = l.Post(ctx, slug)
	case content.CategoryTutorial:
		e, err = l.Tutorial(ctx, slug)
	case content.CategoryCourse:
		e, err = l.Course(ctx, slug)
	default:
		return nil, domainerr.NotFoundError{Category: string(c), Slug: slug}
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FeaturedPosts returns the first n posts of the sorted list; n <= 0 uses
// the configured default. Fewer posts than n is not an error.
func (l *Library) FeaturedPosts(ctx context.Context, n int) ([]content.Post, error) {
	items, err := l.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return prefix(items, n, l.opt.FeaturedLimit), nil
}

func (l *Library) FeaturedTutorials(ctx context.Context, n int) ([]content.Tutorial, error) {
	items, err := l.Tutorials(ctx)
	if err != nil {
		return nil, err
	}
	return prefix(items, n, l.opt.FeaturedLimit), nil
}

func (l *Library) FeaturedCourses(ctx context.Context, n int) ([]content.Course, error) {
	items, err := l.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return prefix(items, n, l.opt.FeaturedLimit), nil
}

// Slugs returns every slug of category in lexical order.
func (l *Library) Slugs(ctx context.Context, c content.Category) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slugs, err := l.opt.Reader.Slugs(c)
	if err != nil {
		return nil, err
	}
	sort.Strings(slugs)
	return slugs, nil
}

// RenderMarkdown converts ad hoc markdown with the library's renderer.
func (l *Library) RenderMarkdown(src string) (string, error) {
	return l.md.RenderString(src)
}
