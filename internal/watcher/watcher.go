// Package watcher observes the watched folder and posts change hints
// to the scheduler. Hints are an optimization only: the scheduler's
// cron tick finds every change on its own, a hint just finds it
// sooner.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vharren/backup-warden/internal/config"
	"github.com/vharren/backup-warden/internal/fsprobe"
	"github.com/vharren/backup-warden/internal/mailbox"
	"github.com/vharren/backup-warden/internal/scheduler"
)

// Watcher emits a Hint whenever the watched tree looks different.
type Watcher struct {
	dir      string
	mode     string
	interval time.Duration
	debounce time.Duration

	log   *slog.Logger
	hints *mailbox.Mailbox[scheduler.Hint]
}

// New creates a watcher from the watch configuration.
func New(watchFolder string, cfg config.WatchConfig, log *slog.Logger, hints *mailbox.Mailbox[scheduler.Hint]) *Watcher {
	return &Watcher{
		dir:      watchFolder,
		mode:     cfg.Mode,
		interval: cfg.PollInterval,
		debounce: cfg.DebounceWindow,
		log:      log,
		hints:    hints,
	}
}

// Start chooses the watching strategy based on the configured mode and
// blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.startFsNotify(ctx)

	case "poll":
		w.startPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(w.dir)
		if res.FsnotifySupported {
			return w.startFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, falling back to polling", "reason", res.Reason)
		w.startPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown watch mode %q", w.mode)
	}
}

func (w *Watcher) hint() {
	w.hints.Put(scheduler.Hint{At: time.Now()})
}
