package index

import (
	"context"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
	"sort"
	"strings"
)

type Stats struct {
	Posts     int `json:"posts"`
	Tutorials int `json:"tutorials"`
	Courses   int `json:"courses"`
	Pages     int `json:"pages"`
}

func (s Stats) Total() int {
	return s.Posts + s.Tutorials + s.Courses + s.Pages
}

// Stats counts the loadable records of every category. Skipped files do not
// count.
func (l *Library) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := l.Posts(gctx)
		s.Posts = len(items)
		return err
	})
	g.Go(func() error {
		items, err := l.Tutorials(gctx)
		s.Tutorials = len(items)
		return err
	})
	g.Go(func() error {
		items, err := l.Courses(gctx)
		s.Courses = len(items)
		return err
	})
	g.Go(func() error {
		items, err := l.Pages(gctx)
		s.Pages = len(items)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Term is one tag or technology with the number of entries carrying it.
type Term struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Taxonomy struct {
	Tags         []Term `json:"tags"`
	Technologies []Term `json:"technologies"`
}

// Taxonomy tallies tags and technologies across posts, tutorials and
// courses. Labels that slugify to the same key are merged under the first
// spelling seen.
func (l *Library) Taxonomy(ctx context.Context) (Taxonomy, error) {
	all, err := l.All(ctx)
	if err != nil {
		return Taxonomy{}, err
	}
	tags := newTally()
	techs := newTally()
	for _, e := range all {
		for _, t := range e.Base().Tags {
			tags.add(t)
		}
		for _, t := range e.Technologies() {
			techs.add(t)
		}
	}
	return Taxonomy{Tags: tags.terms(), Technologies: techs.terms()}, nil
}

type tally struct {
	byKey map[string]*Term
}

func newTally() *tally {
	return &tally{byKey: make(map[string]*Term)}
}

func (t *tally) add(label string) {
	label = strings.TrimSpace(label)
	key := slug.Make(label)
	if key == "" {
		key = strings.ToLower(label)
	}
	if key == "" {
		return
	}
	term, ok := t.byKey[key]
	if !ok {
		term = &Term{Key: key, Name: label}
		t.byKey[key] = term
	}
	term.Count++
}

// terms orders by count descending, then key.
func (t *tally) terms() []Term {
	out := make([]Term, 0, len(t.byKey))
	for _, term := range t.byKey {
		out = append(out, *term)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
