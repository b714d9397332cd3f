package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// startFsNotify posts a debounced hint when fsnotify reports changes
// anywhere in the watched tree. fsnotify watches single directories,
// so every subdirectory is registered up front and new ones are added
// as their create events arrive.
func (w *Watcher) startFsNotify(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.watchTree(fw, w.dir); err != nil {
		return err
	}

	// Channel to request debounce resets
	resetCh := make(chan struct{}, 1)

	go func() {
		var t *time.Timer
		for range resetCh {
			if t != nil {
				t.Stop()
			}
			t = time.AfterFunc(w.debounce, w.hint)
		}
	}()
	defer close(resetCh)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				w.log.Error("events channel closed")
				return nil
			}

			w.log.Debug("event", "name", ev.Name, "op", ev.Op)

			if ev.Op&fsnotify.Create != 0 {
				// A created directory must be watched too, or
				// changes inside it go unseen.
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := fw.Add(ev.Name); err != nil {
						w.log.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
				}
			}

			// Non-blocking send to reset debounce
			select {
			case resetCh <- struct{}{}:
			default:
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}

// watchTree registers root and every directory below it.
func (w *Watcher) watchTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}
