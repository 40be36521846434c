package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCorpus records ingested and removed paths. Paths listed in unchanged
// report as skipped.
type fakeCorpus struct {
	mu        sync.Mutex
	indexed   []string
	removed   []string
	unchanged map[string]bool
}

func (c *fakeCorpus) IndexFile(_ context.Context, path string, _ []string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unchanged[path] {
		return 0, true, nil
	}
	c.indexed = append(c.indexed, path)
	return 3, false, nil
}

func (c *fakeCorpus) RemoveFile(_ context.Context, path string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, path)
	return 3, nil
}

func (c *fakeCorpus) indexedPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.indexed...)
	sort.Strings(out)
	return out
}

func (c *fakeCorpus) removedPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.removed...)
}

func boolPtr(b bool) *bool { return &b }

func startWatcher(t *testing.T, corpus Corpus, cfg config.CorpusConfig, opts ...Option) *Watcher {
	t.Helper()
	opts = append([]Option{WithDebounce(50 * time.Millisecond)}, opts...)
	w := New(corpus, cfg, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	require.NoError(t, w.Start(ctx))
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}

func TestWatcher_IngestsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	corpus := &fakeCorpus{}
	var changes atomic.Int32
	startWatcher(t, corpus, config.CorpusConfig{
		Directories: []string{dir},
		Extensions:  []string{".csv", "md"},
	}, WithOnChange(func() { changes.Add(1) }))

	menu := filepath.Join(dir, "menu.csv")
	writeFile(t, menu, "Category,Item,Serving Size,Calories\nBreakfast,Toast,1 slice,80\n")
	writeFile(t, filepath.Join(dir, "notes.xyz"), "ignored")

	require.Eventually(t, func() bool { return contains(corpus.indexedPaths(), menu) },
		2*time.Second, 20*time.Millisecond)
	assert.False(t, contains(corpus.indexedPaths(), filepath.Join(dir, "notes.xyz")))
	assert.GreaterOrEqual(t, changes.Load(), int32(1))

	require.NoError(t, os.Remove(menu))
	require.Eventually(t, func() bool { return contains(corpus.removedPaths(), menu) },
		2*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	corpus := &fakeCorpus{}
	startWatcher(t, corpus, config.CorpusConfig{Directories: []string{dir}}, WithDebounce(300*time.Millisecond))

	path := filepath.Join(dir, "lunch.txt")
	for i := 0; i < 5; i++ {
		writeFile(t, path, "- Soup 120 kcal\n")
		time.Sleep(20 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(corpus.indexedPaths()) > 0 },
		2*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{path}, corpus.indexedPaths())
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	corpus := &fakeCorpus{}
	startWatcher(t, corpus, config.CorpusConfig{Directories: []string{dir}, Extensions: []string{".txt"}})

	deep := filepath.Join(dir, "weekly", "monday", "dinner.txt")
	writeFile(t, deep, "- Curry 380 kcal\n")

	require.Eventually(t, func() bool { return contains(corpus.indexedPaths(), deep) },
		2*time.Second, 20*time.Millisecond)
}

func TestWatcher_NonRecursiveIgnoresNested(t *testing.T) {
	dir := t.TempDir()
	corpus := &fakeCorpus{}
	w := startWatcher(t, corpus, config.CorpusConfig{
		Directories: []string{dir},
		Recursive:   boolPtr(false),
	})
	assert.False(t, w.covered(filepath.Join(dir, "sub", "x.txt")))
	assert.True(t, w.covered(filepath.Join(dir, "x.txt")))

	top := filepath.Join(dir, "snacks.txt")
	writeFile(t, top, "- Apple 95 kcal\n")
	writeFile(t, filepath.Join(dir, "sub", "nested.txt"), "- Pear 100 kcal\n")

	require.Eventually(t, func() bool { return contains(corpus.indexedPaths(), top) },
		2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{top}, corpus.indexedPaths())
}

func TestWatcher_Sync(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "nested", "b.csv")
	writeFile(t, a, "x")
	writeFile(t, b, "x")
	writeFile(t, filepath.Join(dir, "c.bin"), "x")

	corpus := &fakeCorpus{unchanged: map[string]bool{b: true}}
	var changes atomic.Int32
	w := New(corpus, config.CorpusConfig{Directories: []string{dir}, Extensions: []string{".csv"}},
		WithOnChange(func() { changes.Add(1) }))

	assert.Equal(t, 1, w.Sync())
	assert.Equal(t, []string{a}, corpus.indexedPaths())
	assert.Equal(t, int32(1), changes.Load())

	w = New(corpus, config.CorpusConfig{Directories: []string{dir}, Recursive: boolPtr(false)})
	corpus.indexed = nil
	w.Sync()
	assert.Equal(t, []string{a, filepath.Join(dir, "c.bin")}, corpus.indexedPaths())
}

func TestWatcher_AddRemoveDirectory(t *testing.T) {
	root := t.TempDir()
	extra := t.TempDir()
	existing := filepath.Join(extra, "dinner.md")
	writeFile(t, existing, "## Dinner\n- Salmon 350 kcal\n")

	corpus := &fakeCorpus{}
	w := startWatcher(t, corpus, config.CorpusConfig{Directories: []string{root, root}})
	assert.Equal(t, []string{root}, w.Directories(), "duplicate roots collapse")

	require.NoError(t, w.AddDirectory(extra, true))
	require.NoError(t, w.AddDirectory(extra, true))
	assert.Equal(t, []string{root, extra}, w.Directories())
	require.Eventually(t, func() bool { return contains(corpus.indexedPaths(), existing) },
		2*time.Second, 20*time.Millisecond)

	require.NoError(t, w.RemoveDirectory(extra))
	assert.Equal(t, []string{root}, w.Directories())
	require.NoError(t, w.RemoveDirectory(extra))

	// events in a dropped root are ignored
	assert.False(t, w.covered(filepath.Join(extra, "later.md")))
}

func TestWatcher_StartCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "menus", "incoming")
	startWatcher(t, &fakeCorpus{}, config.CorpusConfig{Directories: []string{root}})
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"menu.csv", []string{".csv"}, true},
		{"menu.CSV", []string{"csv"}, true},
		{"menu.xlsx", []string{".csv", ".XLSX"}, true},
		{"menu.txt", []string{".csv"}, false},
		{"menu", []string{".csv"}, false},
		{"anything.bin", nil, true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.exts); got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	root := filepath.Join("srv", "menus")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "a.csv"), true},
		{filepath.Join(root, "x", "b.csv"), true},
		{root, false},
		{filepath.Join("srv", "menus-old", "a.csv"), false},
		{filepath.Join("srv", "a.csv"), false},
	}
	for _, tt := range tests {
		if got := within(root, tt.path); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", root, tt.path, got, tt.want)
		}
	}
}
