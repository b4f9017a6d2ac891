package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	log     *slog.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. Editors often replace the file instead of
// writing it, so the parent directory is watched.
func NewWatcher(path string, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{path: filepath.Clean(path), log: log, watcher: fw}, nil
}

// Run calls fn with every config that loads and validates after a change.
// Invalid files are logged and skipped. Run returns when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("reload config", "path", w.path, "error", err)
				continue
			}
			w.log.Info("config reloaded", "path", w.path)
			fn(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch config", "path", w.path, "error", err)
		}
	}
}
