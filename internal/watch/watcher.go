// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watcher already running")

// builtinIgnores are never watched: VCS metadata, build trees of common
// toolchains and editor temporaries.
var builtinIgnores = []string{
	"**/.git/**",
	"**/.svn/**",
	"**/.vs/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are watched recursively. Nested or repeated roots are
		// collapsed. Empty means the working directory.
		Roots []string
		// Patterns select the root-relative, '/'-separated paths that count as
		// changes (doublestar syntax). Empty selects every path.
		Patterns []string
		// FoldCase matches Patterns case-insensitively.
		FoldCase bool
		// Ignore adds doublestar patterns to the built-in ignores.
		Ignore []string
		// Debounce is the quiet period before OnChange fires.
		Debounce time.Duration
		// Logger receives watcher diagnostics. Defaults to slog.Default().
		Logger *slog.Logger
		// OnChange receives the sorted absolute '/'-separated paths changed
		// during the last quiet period. Errors are logged, not fatal.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher fires Config.OnChange for batches of filesystem changes.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		patterns []string
		ignores  []string
		debounce time.Duration
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under the roots.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns("watch", cfg.Patterns); err != nil {
		return nil, err
	}
	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		return nil, err
	}

	roots, err := normalizeRoots(cfg.Roots)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if cfg.FoldCase {
		cfg.Patterns = lowerAll(cfg.Patterns)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		patterns: cfg.Patterns,
		ignores:  slices.Concat(builtinIgnores, cfg.Ignore),
		debounce: debounce,
		logger:   logger,
	}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("closing watcher after setup failure", "error", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

// Roots returns the watched root directories.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the OS stops delivering events.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	batches := newDebouncer(w.debounce, w.logger, func(changed []string) {
		if ctx.Err() != nil {
			return
		}
		w.logger.Debug("change batch", "paths", len(changed))
		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("rescan failed", "error", err)
		}
	})
	defer func() {
		batches.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing fsnotify watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("fsnotify event channel closed")
			}
			if path, ok := w.accept(evt); ok {
				batches.add(path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed")
			}
			if hint, fatal := exhaustionHint(err); fatal {
				return fmt.Errorf("watching stopped (%s): %w", hint, err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// accept filters an event and returns the path to report. Created
// directories are added to the watch set.
func (w *Watcher) accept(evt fsnotify.Event) (string, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	rel, ok := w.relative(evt.Name)
	if !ok || w.isIgnored(rel) {
		return "", false
	}
	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				w.logger.Warn("watching new directory", "dir", evt.Name, "error", err)
			}
		}
	}
	if !w.matches(rel) {
		return "", false
	}
	return filepath.ToSlash(evt.Name), true
}

// addTree registers dir and its non-ignored subdirectories.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil //nolint:nilerr // unreadable directories are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(path); ok && rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}
	return nil
}

// relative returns path relative to the innermost root containing it.
func (w *Watcher) relative(path string) (string, bool) {
	best := ""
	for _, root := range w.roots {
		if isWithin(root, path) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return "", false
	}
	rel, err := filepath.Rel(best, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matches(rel string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	if w.cfg.FoldCase {
		rel = strings.ToLower(rel)
	}
	return matchAny(w.patterns, rel)
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// normalizeRoots makes roots absolute and drops roots nested in another.
func normalizeRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		a, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolving watch root %s: %w", r, err)
		}
		info, err := os.Stat(a)
		if err != nil {
			return nil, fmt.Errorf("watch root %s: %w", r, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("watch root %s is not a directory", r)
		}
		abs = append(abs, a)
	}
	slices.Sort(abs)
	abs = slices.Compact(abs)

	out := abs[:0]
	for _, a := range abs {
		if len(out) > 0 && isWithin(out[len(out)-1], a) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func isWithin(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}

func validatePatterns(label string, patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid %s pattern %q", label, pat)
		}
	}
	return nil
}

// ExtensionPatterns returns doublestar patterns matching files with the given
// extensions (".cpp" or "cpp") in any directory, plus the extra names.
func ExtensionPatterns(exts []string, extra ...string) []string {
	out := make([]string, 0, len(exts)+len(extra))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		out = append(out, "**/*."+ext)
	}
	for _, name := range extra {
		out = append(out, "**/"+name)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
