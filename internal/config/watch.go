package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 50 * time.Millisecond

// Watch reloads the config file at path whenever it is written or replaced
// and passes the result to onChange. Files that fail to load or validate are
// reported to onError (if set) and otherwise ignored. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often save by rename, which drops a
	// watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(path)
	var pending <-chan time.Time

	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			cfg, err := LoadFromPath(path)
			if err != nil {
				report(err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				report(fmt.Errorf("invalid config %s: %w", path, err))
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(err)
		}
	}
}
