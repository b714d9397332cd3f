package watcher

import (
	"context"
	"time"

	"github.com/vharren/backup-warden/internal/tracker"
)

// startPolling recomputes the tree signature on a fixed interval and
// posts a hint when it differs from the previous poll. The first poll
// only sets the baseline; the scheduler already runs a first-run
// backup on its own.
func (w *Watcher) startPolling(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last tracker.Signature

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur, err := tracker.ComputeSignature(w.dir)
			if err != nil {
				w.log.Warn("poll failed", "error", err)
				continue
			}
			if last.Zero() {
				last = cur
				continue
			}
			if !cur.Equal(last) {
				last = cur
				w.hint()
			}
		}
	}
}
