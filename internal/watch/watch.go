// Package watch reports content edits as they happen so cached renders can
// be dropped and callers can reload.
package watch

import (
	"chainpress/internal/domain/content"
	"chainpress/internal/ingest"
	"chainpress/internal/logging"
	"context"
	"github.com/fsnotify/fsnotify"
	"os"
	"sort"
	"time"
)

const DefaultDebounce = 200 * time.Millisecond

// Change is a content file touched since the last batch.
type Change struct {
	Category content.Category
	Slug     string
	Path     string
	Removed  bool
}

// Invalidator drops cached state of one content file.
type Invalidator interface {
	Invalidate(c content.Category, slug string) error
}

type Watcher struct {
	Reader   *ingest.Reader
	Cache    Invalidator
	Logger   logging.Logger
	Debounce time.Duration
	// OnChange receives each debounced batch, ordered by path.
	OnChange func(ctx context.Context, changes []Change)
}

func (w *Watcher) logger() logging.Logger {
	if w.Logger == nil {
		return logging.NoOp()
	}
	return w.Logger
}

// Run watches every category directory until ctx is done. Missing
// directories are created first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, c := range content.Categories {
		dir := w.Reader.Dir(c)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
	}
	w.logger().Info("watching for content changes", "root", w.Reader.Root)
	return w.loop(ctx, fw.Events, fw.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	wait := w.Debounce
	if wait <= 0 {
		wait = DefaultDebounce
	}
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	pending := make(map[string]Change)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			sf, ok := w.Reader.Classify(ev.Name)
			if !ok {
				continue
			}
			pending[sf.Path] = Change{
				Category: sf.Category,
				Slug:     sf.Slug,
				Path:     sf.Path,
				Removed:  ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
			}
			debounce.Reset(wait)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger().Warn("watcher error", "error", err)
		case <-debounce.C:
			w.flush(ctx, pending)
			pending = make(map[string]Change)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]Change) {
	if len(pending) == 0 {
		return
	}
	changes := make([]Change, 0, len(pending))
	for _, c := range pending {
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })

	for _, c := range changes {
		log := logging.WithContent(w.logger(), c.Path, string(c.Category), c.Slug)
		if w.Cache != nil {
			if err := w.Cache.Invalidate(c.Category, c.Slug); err != nil {
				log.Warn("cache invalidation failed", "error", err)
			}
		}
		log.Debug("content changed", "removed", c.Removed)
	}
	if w.OnChange != nil {
		w.OnChange(ctx, changes)
	}
}
