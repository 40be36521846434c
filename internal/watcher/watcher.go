// Package watcher keeps the food corpus in step with watched directories.
// Menu files that appear or change are (re)ingested after a short quiet
// period; deleted or renamed files drop their items.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/kondate/internal/config"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Corpus is the part of the indexer the watcher drives (*indexer.Indexer).
type Corpus interface {
	IndexFile(ctx context.Context, path string, allowedExts []string) (n int, skipped bool, err error)
	RemoveFile(ctx context.Context, path string) (int, error)
}

// Watcher watches corpus directories and applies file changes to a Corpus.
type Watcher struct {
	corpus     Corpus
	extensions []string
	recursive  bool
	debounce   time.Duration
	onChange   func()
	logger     *zap.Logger

	mu       sync.Mutex
	ctx      context.Context
	fsw      *fsnotify.Watcher
	roots    []string
	watched  map[string][]string // root -> directories registered with fsnotify
	pending  map[string]*time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long a file must be quiet before it is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnChange registers fn to run after a file event changed the corpus.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// New creates a watcher over cfg.Directories. Call Start to begin watching.
func New(corpus Corpus, cfg config.CorpusConfig, opts ...Option) *Watcher {
	w := &Watcher{
		corpus:     corpus,
		extensions: append([]string(nil), cfg.Extensions...),
		recursive:  cfg.RecursiveOrDefault(),
		debounce:   defaultDebounce,
		logger:     zap.NewNop(),
		roots:      cleanRoots(cfg.Directories),
		watched:    make(map[string][]string),
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func cleanRoots(dirs []string) []string {
	var roots []string
	seen := make(map[string]bool)
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		roots = append(roots, abs)
	}
	return roots
}

// Start registers the roots with fsnotify and processes events until ctx is
// cancelled or Stop is called. Missing roots are created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.fsw != nil {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.ctx = ctx
	for _, root := range w.roots {
		if err := w.watchRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.mu.Unlock()
			return err
		}
	}
	w.logger.Info("Watching corpus directories",
		zap.Strings("roots", w.roots),
		zap.Strings("extensions", w.extensions),
		zap.Bool("recursive", w.recursive),
	)
	w.mu.Unlock()

	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if !w.covered(path) {
		return
	}
	w.logger.Debug("watch event", zap.String("op", ev.Op.String()), zap.String("path", path))

	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.cancel(path)
		w.remove(path)
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Has(fsnotify.Create) {
				w.addSubdirectory(path)
			}
			return
		}
		if matchExtension(path, w.extensions) {
			w.schedule(path)
		}
	}
}

// addSubdirectory watches a directory created under a root and ingests
// whatever was copied into it before the watch took effect.
func (w *Watcher) addSubdirectory(dir string) {
	w.mu.Lock()
	if w.fsw == nil || !w.recursive {
		w.mu.Unlock()
		return
	}
	root := w.rootOfLocked(dir)
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchLocked(root, p)
		return nil
	})
	w.mu.Unlock()
	w.syncTree(dir)
}

func (w *Watcher) addWatchLocked(root, dir string) {
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn("failed to watch directory", zap.String("path", dir), zap.Error(err))
		return
	}
	w.watched[root] = append(w.watched[root], dir)
}

func (w *Watcher) rootOfLocked(path string) string {
	for _, root := range w.roots {
		if root == path || within(root, path) {
			return root
		}
	}
	return ""
}

// covered reports whether path lies in a watched root. Files in nested
// directories of a non-recursive root are not covered.
func (w *Watcher) covered(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	root := w.rootOfLocked(path)
	if root == "" {
		return false
	}
	return w.recursive || filepath.Dir(path) == root || path == root
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if w.ingest(path) {
			w.changed()
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return context.Background()
	}
	return w.ctx
}

// ingest indexes one file and reports whether the corpus changed.
func (w *Watcher) ingest(path string) bool {
	n, skipped, err := w.corpus.IndexFile(w.context(), path, w.extensions)
	if err != nil {
		w.logger.Warn("failed to ingest file", zap.String("path", path), zap.Error(err))
		return false
	}
	if skipped {
		w.logger.Debug("file unchanged", zap.String("path", path))
		return false
	}
	w.logger.Info("Ingested file", zap.String("path", path), zap.Int("items", n))
	return true
}

func (w *Watcher) remove(path string) {
	n, err := w.corpus.RemoveFile(w.context(), path)
	if err != nil {
		w.logger.Warn("failed to remove file items", zap.String("path", path), zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("Removed file items", zap.String("path", path), zap.Int("items", n))
		w.changed()
	}
}

func (w *Watcher) changed() {
	if w.onChange != nil {
		w.onChange()
	}
}

// syncTree ingests every matching file under dir and reports how many
// files changed the corpus.
func (w *Watcher) syncTree(dir string) int {
	changed := 0
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && !w.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if matchExtension(p, w.extensions) && w.ingest(p) {
			changed++
		}
		return nil
	})
	if changed > 0 {
		w.changed()
	}
	return changed
}

// Sync ingests the files already present in every root and returns how
// many changed the corpus. Unchanged files are skipped by the corpus.
func (w *Watcher) Sync() int {
	total := 0
	for _, root := range w.Directories() {
		total += w.syncTree(root)
	}
	return total
}

func (w *Watcher) watchRootLocked(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	if !w.recursive {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		w.watched[root] = []string{root}
		return nil
	}
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return err
	}
	w.watched[root] = dirs
	return nil
}

// AddDirectory starts watching root. With syncExisting, files already in
// it are ingested in the background.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	for _, r := range w.roots {
		if r == abs {
			w.mu.Unlock()
			return nil
		}
	}
	if w.fsw != nil {
		if err := w.watchRootLocked(abs); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	w.logger.Info("Watching directory", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if syncExisting {
		go w.syncTree(abs)
	}
	return nil
}

// RemoveDirectory stops watching root. Items already ingested from it stay
// in the corpus.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, r := range w.roots {
		if r != abs {
			continue
		}
		if w.fsw != nil {
			for _, d := range w.watched[abs] {
				_ = w.fsw.Remove(d)
			}
		}
		delete(w.watched, abs)
		w.roots = append(w.roots[:i], w.roots[i+1:]...)
		w.logger.Info("Stopped watching directory", zap.String("path", abs))
		return nil
	}
	return nil
}

// Directories returns the watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// Stop stops watching and drops pending ingests.
func (w *Watcher) Stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	if w.fsw != nil {
		_ = w.fsw.Close()
		w.fsw = nil
	}
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
