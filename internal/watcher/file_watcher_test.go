package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher creates watcher successfully with valid directories
// - NewFileWatcher returns error with invalid directory
// - Single file change fires callback after debounce
// - Multiple file changes are batched into one sorted callback
// - Debouncing works (rapid changes coalesced into single callback)
// - File deleted triggers callback
// - Directory added triggers recursive watch
// - Skipped directories are not watched
// - Filter excludes non-matching files
// - Stop() cleanup is fast and idempotent
// - Context cancellation stops watcher
// - Concurrent Stop() calls are safe

// extFilter matches files by extension and skips directories by base name.
type extFilter struct {
	exts map[string]bool
	skip map[string]bool
}

func newExtFilter(exts ...string) extFilter {
	f := extFilter{exts: map[string]bool{}, skip: map[string]bool{"node_modules": true}}
	for _, e := range exts {
		f.exts[e] = true
	}
	return f
}

func (f extFilter) Match(path string) bool   { return f.exts[filepath.Ext(path)] }
func (f extFilter) SkipDir(path string) bool { return f.skip[filepath.Base(path)] }

type recorder struct {
	mu     sync.Mutex
	calls  [][]string
	called chan struct{}
}

func newRecorder() *recorder {
	return &recorder{called: make(chan struct{}, 10)}
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	r.calls = append(r.calls, files)
	r.mu.Unlock()
	r.called <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.called:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		out = append(out, c...)
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func startWatcher(t *testing.T, dir string, rec *recorder) FileWatcher {
	t.Helper()
	w, err := NewFileWatcher([]string{dir}, newExtFilter(".ts", ".js"), WithDebounce(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(context.Background(), rec.callback))
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Stop())
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "nonexistent")}, nil)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec)

	file := filepath.Join(dir, "rule.ts")
	require.NoError(t, os.WriteFile(file, []byte("class A {}"), 0o644))

	rec.wait(t)
	assert.Equal(t, []string{file}, rec.all())
}

func TestFileWatcher_MultipleFileChangesBatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec)

	b := filepath.Join(dir, "b.ts")
	a := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))

	rec.wait(t)
	assert.Equal(t, []string{a, b}, rec.all(), "batch is sorted and deduplicated")
}

func TestFileWatcher_Debouncing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec)

	file := filepath.Join(dir, "rule.ts")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte{byte('a' + i)}, 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	rec.wait(t)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "Should have exactly one callback due to debouncing")
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "old.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	rec := newRecorder()
	startWatcher(t, dir, rec)

	require.NoError(t, os.Remove(file))
	rec.wait(t)
	assert.Contains(t, rec.all(), file)
}

func TestFileWatcher_DirectoryAdded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec)

	newDir := filepath.Join(dir, "rules")
	require.NoError(t, os.Mkdir(newDir, 0o755))
	time.Sleep(200 * time.Millisecond)

	file := filepath.Join(newDir, "lamp.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	rec.wait(t)
	assert.Contains(t, rec.all(), file)
}

func TestFileWatcher_SkippedDirectoryAndFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	skipped := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(skipped, 0o755))

	rec := newRecorder()
	startWatcher(t, dir, rec)

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "dep.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	kept := filepath.Join(dir, "kept.ts")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))

	rec.wait(t)
	assert.Equal(t, []string{kept}, rec.all())
}

func TestFileWatcher_StopCleanup(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, w.Stop())
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.NoError(t, w.Stop())
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, func([]string) {}))

	cancel()
	select {
	case <-w.(*fileWatcher).doneCh:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestFileWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Stop()
		}()
	}
	wg.Wait()
}
