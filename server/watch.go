package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch calls onChange once things under src settle after modification. src
// could be a directory (watched recursively) or a single file. Blocks until
// context is canceled.
func Watch(ctx context.Context, src string, debounce time.Duration, onChange func(), log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("unable to watch source: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to init watcher: %w", err)
	}
	defer watcher.Close()

	// single files are watched through their directory, editors tend to
	// replace files rather than write them
	var only string
	if fi.IsDir() {
		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
	} else {
		only = filepath.Clean(src)
		err = watcher.Add(filepath.Dir(only))
	}
	if err != nil {
		return fmt.Errorf("unable to watch source: %w", err)
	}
	log.Info("Watching for changes", zap.String("source", src), zap.Duration("debounce", debounce))

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reset := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, onChange)
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if len(only) > 0 && filepath.Clean(ev.Name) != only {
				continue
			}
			if ev.Op&changeOps == 0 {
				continue
			}
			log.Debug("Source changed", zap.Stringer("event", ev))
			if ev.Op.Has(fsnotify.Create) && len(only) == 0 {
				// new directories need to be watched too
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						log.Warn("Unable to watch new directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			reset()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error", zap.Error(err))
		}
	}
}
