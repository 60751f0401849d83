package ingest

import (
	"chainpress/internal/cache"
	"chainpress/internal/domain/build"
	"chainpress/internal/domain/content"
	domainerr "chainpress/internal/domain/errors"
	"chainpress/internal/logging"
	"chainpress/internal/render"
	"context"
	"errors"
	"os"
	"runtime"
	"sort"
	"sync"
)

type Warning struct {
	Path string
	Msg  string
}

// Failure is a file left out of a listing.
type Failure struct {
	Path string
	Slug string
	Err  error
}

// Report describes one category listing.
type Report struct {
	Category content.Category
	Loaded   int
	Skipped  []Failure
	Warnings []Warning
}

type Renderer interface {
	Render(src []byte) (render.MarkdownResult, error)
	Fingerprint() string
}

// RenderCache keeps rendered bodies between loads. Implementations must
// only return an entry whose fingerprint matches.
type RenderCache interface {
	Get(c content.Category, slug string, fp build.Fingerprint) (cache.Entry, bool)
	Put(c content.Category, slug string, fp build.Fingerprint, e cache.Entry) error
}

// Document is a parsed and rendered content file.
type Document struct {
	Source   SourceFile
	Meta     Metadata
	Body     Body
	Degraded bool
}

type Loader struct {
	Reader   *Reader
	Renderer Renderer
	Cache    RenderCache
	Logger   logging.Logger
	Workers  int
}

func (l *Loader) logger() logging.Logger {
	if l.Logger == nil {
		return logging.NoOp()
	}
	return l.Logger
}

func (l *Loader) workers() int {
	if l.Workers > 0 {
		return l.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Load reads, parses and renders one file.
func (l *Loader) Load(ctx context.Context, sf SourceFile) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, domainerr.NotFoundError{Category: string(sf.Category), Slug: sf.Slug}
		}
		return Document{}, err
	}

	meta, body, err := ParseFrontMatter(raw)
	if err != nil {
		var mf domainerr.MalformedFrontmatterError
		if errors.As(err, &mf) {
			mf.Path = sf.Path
			return Document{}, mf
		}
		return Document{}, err
	}

	doc := Document{Source: sf, Meta: meta, Body: Body{Markdown: string(body)}}

	var fp build.Fingerprint
	if l.Cache != nil {
		fp = build.NewFingerprint(raw, l.Renderer.Fingerprint())
		if e, ok := l.Cache.Get(sf.Category, sf.Slug, fp); ok {
			doc.Body.HTML = e.HTML
			doc.Body.Headings = e.Headings
			return doc, nil
		}
	}

	res, err := l.Renderer.Render(body)
	if err != nil {
		return Document{}, err
	}
	doc.Body.HTML = string(res.HTML)
	doc.Body.Headings = res.Headings
	doc.Degraded = res.Degraded

	if l.Cache != nil && !res.Degraded {
		if err := l.Cache.Put(sf.Category, sf.Slug, fp, cache.Entry{
			HTML:     doc.Body.HTML,
			Headings: doc.Body.Headings,
		}); err != nil {
			l.logger().Warn("render cache write failed", "path", sf.Path, "error", err)
		}
	}
	return doc, nil
}

// LoadOne loads the file backing slug. A missing file is a NotFoundError.
func (l *Loader) LoadOne(ctx context.Context, c content.Category, slug string) (Document, error) {
	sf, err := l.Reader.Locate(c, slug)
	if err != nil {
		return Document{}, err
	}
	return l.Load(ctx, sf)
}

type result[T any] struct {
	pos   int
	item  T
	warns []Warning
	fail  *Failure
}

// Collect loads every file of category concurrently and maps each document
// through fn. Files that fail to load are skipped and listed in the report;
// they never abort the listing. The output keeps enumeration order.
func Collect[T any](ctx context.Context, l *Loader, c content.Category, fn func(Document) (T, []Warning)) ([]T, Report, error) {
	rep := Report{Category: c}
	files, err := l.Reader.Discover(c)
	if err != nil {
		return nil, rep, err
	}
	if len(files) == 0 {
		return []T{}, rep, nil
	}

	type job struct {
		pos int
		sf  SourceFile
	}
	jobs := make(chan job)
	results := make(chan result[T])

	var wg sync.WaitGroup
	workers := min(l.workers(), len(files))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				doc, err := l.Load(ctx, j.sf)
				if err != nil {
					results <- result[T]{pos: j.pos, fail: &Failure{Path: j.sf.Path, Slug: j.sf.Slug, Err: err}}
					continue
				}
				item, warns := fn(doc)
				for i := range warns {
					warns[i].Path = j.sf.Path
				}
				if doc.Degraded {
					warns = append(warns, Warning{Path: j.sf.Path, Msg: "rendered with fallback"})
				}
				results <- result[T]{pos: j.pos, item: item, warns: warns}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, f := range files {
			select {
			case jobs <- job{pos: i, sf: f}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	slots := make([]*T, len(files))
	log := logging.WithContent(l.logger(), "", string(c), "")
	for r := range results {
		rep.Warnings = append(rep.Warnings, r.warns...)
		if r.fail != nil {
			if errors.Is(r.fail.Err, context.Canceled) || errors.Is(r.fail.Err, context.DeadlineExceeded) {
				continue
			}
			rep.Skipped = append(rep.Skipped, *r.fail)
			log.Warn("skipping content file", "path", r.fail.Path, "error", r.fail.Err)
			continue
		}
		item := r.item
		slots[r.pos] = &item
	}
	if err := ctx.Err(); err != nil {
		return nil, rep, err
	}
	sort.Slice(rep.Skipped, func(i, j int) bool { return rep.Skipped[i].Path < rep.Skipped[j].Path })
	sort.SliceStable(rep.Warnings, func(i, j int) bool { return rep.Warnings[i].Path < rep.Warnings[j].Path })
	for _, w := range rep.Warnings {
		log.Debug(w.Msg, "path", w.Path)
	}

	out := make([]T, 0, len(files))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	rep.Loaded = len(out)
	return out, rep, nil
}
