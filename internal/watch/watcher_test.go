package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"promnamelint/internal/crawler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, exclude ...string) *Watcher {
	t.Helper()
	cr, err := crawler.NewCrawler(exclude)
	require.NoError(t, err)

	w, err := NewWatcher(Config{Roots: []string{root}, Crawler: cr, DebounceDelay: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	require.NoError(t, w.Start(ctx))
	return w
}

// nextEvent waits for an event about path, skipping unrelated batches.
func nextEvent(t *testing.T, w *Watcher, path string) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case batch, ok := <-w.Events():
			require.True(t, ok, "events closed")
			for _, ev := range batch {
				if ev.Path == path {
					return ev
				}
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestNewWatcher_RequiresCrawler(t *testing.T) {
	_, err := NewWatcher(Config{})
	assert.Error(t, err)
}

func TestWatcher_ChangeAndDelete(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	path := filepath.Join(root, "metrics.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	assert.Equal(t, OpChange, nextEvent(t, w, path).Operation)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, OpDelete, nextEvent(t, w, path).Operation)
}

func TestWatcher_NewDirectory(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	dir := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// Give the watcher a moment to add the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "metrics.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	assert.Equal(t, OpChange, nextEvent(t, w, path).Operation)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "gen"), 0o755))
	w := startWatcher(t, root, "gen/**")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gen", "skip.py"), []byte("x = 1\n"), 0o644))
	marker := filepath.Join(root, "marker.py")
	require.NoError(t, os.WriteFile(marker, []byte("x = 1\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case batch := <-w.Events():
			for _, ev := range batch {
				assert.NotEqual(t, filepath.Join(root, "notes.txt"), ev.Path)
				assert.NotEqual(t, filepath.Join(root, "gen", "skip.py"), ev.Path)
				if ev.Path == marker {
					return
				}
			}
		case <-timeout:
			t.Fatal("no event for marker.py")
		}
	}
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	cr, err := crawler.NewCrawler(nil)
	require.NoError(t, err)
	w, err := NewWatcher(Config{Roots: []string{t.TempDir()}, Crawler: cr, DebounceDelay: 10 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events not closed")
	}
}
