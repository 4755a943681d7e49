// Package watcher maps file changes onto actions.
//
// Every Rule owns a debounce timer, so a burst of saves triggers one run,
// and rules react independently of each other. A rule that fires while its
// action is still running is queued once and re-run afterwards. Action
// errors are logged; watching always continues until the context ends.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/vk/themeforge/internal/ctxlog"
)

// DefaultDebounce is the quiet period before a rule fires.
const DefaultDebounce = 150 * time.Millisecond

// Action is run when a rule fires.
type Action func(ctx context.Context) error

// Rule binds glob patterns, relative to the watch root, to an action.
type Rule struct {
	Name    string
	Include []string
	Exclude []string
	Action  Action
}

// Watcher dispatches file system events to rules.
type Watcher struct {
	root     string
	rules    []Rule
	debounce time.Duration
}

// New creates a watcher over root. A debounce of zero uses DefaultDebounce.
func New(root string, rules []Rule, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, rules: rules, debounce: debounce}
}

type ruleState struct {
	timer   *time.Timer
	running bool
	again   bool
}

// Run watches until ctx is cancelled. It only returns an error when the
// watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	trees, pending := w.baseDirs()
	for _, dir := range trees {
		if err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}
	for _, dir := range pending {
		parent := w.nearestDir(dir)
		logger.Debug("Base directory missing, waiting for it.", "dir", dir, "watching", parent)
		if err := fsw.Add(parent); err != nil {
			return fmt.Errorf("watching %s: %w", parent, err)
		}
	}
	logger.Info("👀 Watching for changes", "root", w.root, "rules", len(w.rules))

	states := make([]ruleState, len(w.rules))
	fire := make(chan int)
	done := make(chan int)

	start := func(i int) {
		states[i].running = true
		rule := w.rules[i]
		go func() {
			rl := logger.With("rule", rule.Name)
			rl.Info("🔁 Change detected, running")
			if err := rule.Action(ctxlog.WithLogger(ctx, rl)); err != nil {
				if ctx.Err() == nil {
					rl.Error("❌ Watch action failed", "error", err)
				}
			}
			select {
			case done <- i:
			case <-ctx.Done():
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			for i := range states {
				if states[i].timer != nil {
					states[i].timer.Stop()
				}
			}
			logger.Debug("Watcher stopped.")
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					trees, pending = w.track(logger, fsw, ev.Name, trees, pending)
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			for i, rule := range w.rules {
				if !matches(rule, rel) {
					continue
				}
				logger.Debug("Change matched rule.", "path", rel, "op", ev.Op.String(), "rule", rule.Name)
				if states[i].timer != nil {
					states[i].timer.Stop()
				}
				idx := i
				states[i].timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- idx:
					case <-ctx.Done():
					}
				})
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)

		case i := <-fire:
			if states[i].running {
				states[i].again = true
				continue
			}
			start(i)

		case i := <-done:
			states[i].running = false
			if states[i].again {
				states[i].again = false
				start(i)
			}
		}
	}
}

func matches(rule Rule, rel string) bool {
	hit := false
	for _, p := range rule.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, p := range rule.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	return true
}

// baseDirs splits the static prefixes of the include patterns into
// existing directories, watched recursively, and missing ones. A missing
// base is waited for by watching its closest existing parent alone, so an
// absent category never puts the whole project tree under watch.
func (w *Watcher) baseDirs() (trees, pending []string) {
	seen := make(map[string]bool)
	for _, rule := range w.rules {
		for _, p := range rule.Include {
			base, _ := doublestar.SplitPattern(p)
			dir := filepath.Join(w.root, filepath.FromSlash(base))
			if seen[dir] {
				continue
			}
			seen[dir] = true
			if isDir(dir) {
				trees = append(trees, dir)
			} else {
				pending = append(pending, dir)
			}
		}
	}
	return trees, pending
}

// track reacts to a created directory: inside a watched tree it is added
// recursively; on the way to a pending base it moves the watch one step
// closer, or starts the tree once the base exists.
func (w *Watcher) track(logger *slog.Logger, fsw *fsnotify.Watcher, created string, trees, pending []string) ([]string, []string) {
	for _, tree := range trees {
		if within(created, tree) {
			if err := w.addTree(fsw, created); err != nil {
				logger.Warn("Could not watch new directory", "path", created, "error", err)
			}
			break
		}
	}

	var still []string
	for _, base := range pending {
		if !within(base, created) {
			still = append(still, base)
			continue
		}
		if isDir(base) {
			if err := w.addTree(fsw, base); err != nil {
				logger.Warn("Could not watch new directory", "path", base, "error", err)
			}
			trees = append(trees, base)
			continue
		}
		if err := fsw.Add(w.nearestDir(base)); err != nil {
			logger.Warn("Could not watch new directory", "path", base, "error", err)
		}
		still = append(still, base)
	}
	return trees, still
}

// nearestDir returns dir or its closest existing ancestor, never leaving
// the watch root.
func (w *Watcher) nearestDir(dir string) string {
	for !isDir(dir) {
		parent := filepath.Dir(dir)
		if parent == dir || !within(parent, w.root) {
			return w.root
		}
		dir = parent
	}
	return dir
}

func within(dir, root string) bool {
	return dir == root || strings.HasPrefix(dir, root+string(filepath.Separator))
}

func isDir(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
