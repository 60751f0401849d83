package index

import (
	"chainpress/internal/domain/content"
	"context"
)

// Related returns up to n entries of the same category as e that share a tag
// or a technology label with it. e itself is never included. n <= 0 uses the
// configured default.
func (l *Library) Related(ctx context.Context, e content.Entry, n int) ([]content.Entry, error) {
	if n <= 0 {
		n = l.opt.RelatedLimit
	}
	var pool []content.Entry
	switch e.Kind() {
	case content.CategoryPost:
		items, err := l.Posts(ctx)
		if err != nil {
			return nil, err
		}
		pool = entries(items)
	case content.CategoryTutorial:
		items, err := l.Tutorials(ctx)
		if err != nil {
			return nil, err
		}
		pool = entries(items)
	case content.CategoryCourse:
		items, err := l.Courses(ctx)
		if err != nil {
			return nil, err
		}
		pool = entries(items)
	}

	self := e.Base()
	out := []content.Entry{}
	for _, cand := range pool {
		if len(out) == n {
			break
		}
		if cand.Base().Slug == self.Slug {
			continue
		}
		if sharesAny(cand.Base().Tags, e, content.HasTag) || sharesAny(cand.Technologies(), e, content.HasTechnology) {
			out = append(out, cand)
		}
	}
	return out, nil
}

func sharesAny(labels []string, e content.Entry, has func(content.Entry, string) bool) bool {
	for _, label := range labels {
		if has(e, label) {
			return true
		}
	}
	return false
}

func entries[T content.Entry](items []T) []content.Entry {
	out := make([]content.Entry, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
