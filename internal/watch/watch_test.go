package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"chainpress/internal/domain/content"
	"chainpress/internal/ingest"
	"chainpress/internal/logging"
	"chainpress/internal/testutil"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu   sync.Mutex
	seen []string
	err  error
}

func (f *fakeCache) Invalidate(c content.Category, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, string(c)+"/"+slug)
	return f.err
}

func TestLoopDebouncesAndInvalidates(t *testing.T) {
	root := testutil.ContentRoot(t)
	fc := &fakeCache{}
	batches := make(chan []Change, 4)
	w := &Watcher{
		Reader:   ingest.NewReader(root),
		Cache:    fc,
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) { batches <- changes },
	}

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx, events, errs) }()

	events <- fsnotify.Event{Name: filepath.Join(root, "posts", "b.md"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: filepath.Join(root, "posts", "b.md"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: filepath.Join(root, "courses", "a.md"), Op: fsnotify.Remove}
	events <- fsnotify.Event{Name: filepath.Join(root, "posts", "notes.txt"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: filepath.Join(root, "posts", "c.md"), Op: fsnotify.Chmod}

	var got []Change
	select {
	case got = <-batches:
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}
	require.Len(t, got, 2)
	assert.Equal(t, Change{Category: content.CategoryCourse, Slug: "a", Path: filepath.Join(root, "courses", "a.md"), Removed: true}, got[0])
	assert.Equal(t, "b", got[1].Slug)
	assert.False(t, got[1].Removed)

	fc.mu.Lock()
	assert.ElementsMatch(t, []string{"course/a", "post/b"}, fc.seen)
	fc.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopLogsErrorsAndFailedInvalidation(t *testing.T) {
	root := testutil.ContentRoot(t)
	rec := logging.NewRecorder()
	batches := make(chan []Change, 1)
	w := &Watcher{
		Reader:   ingest.NewReader(root),
		Cache:    &fakeCache{err: errors.New("locked")},
		Logger:   rec,
		Debounce: 10 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) { batches <- changes },
	}
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	done := make(chan error, 1)
	go func() { done <- w.loop(context.Background(), events, errs) }()

	errs <- errors.New("overflow")
	events <- fsnotify.Event{Name: filepath.Join(root, "pages", "about.md"), Op: fsnotify.Create}
	select {
	case <-batches:
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	close(events)
	require.NoError(t, <-done)
	assert.Len(t, rec.Entries("warn"), 2)
}

func TestRunWatchesCategoryDirs(t *testing.T) {
	root := testutil.ContentRoot(t)
	batches := make(chan []Change, 4)
	w := &Watcher{
		Reader:   ingest.NewReader(root),
		Debounce: 20 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) { batches <- changes },
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// the directories exist once Run has set up its watches
	require.Eventually(t, func() bool {
		testutil.WriteContent(t, root, "tutorials", "live", "x")
		select {
		case changes := <-batches:
			return len(changes) == 1 && changes[0].Slug == "live"
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
