// Package scheduler drives the backup cycle: evaluate the watched
// folder, write snapshots to every location, commit the signature,
// prune. One instance runs for the lifetime of the process.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vharren/backup-warden/internal/mailbox"
	"github.com/vharren/backup-warden/internal/retention"
	"github.com/vharren/backup-warden/internal/snapshot"
	"github.com/vharren/backup-warden/internal/tracker"
)

// Hint is a change-detected signal from the watcher. It only shortens
// the wait until the next evaluation; the tick re-verifies with the
// signature, so spurious hints are harmless.
type Hint struct {
	At time.Time
}

// Scheduler owns the remembered backup state and sequences every
// cycle. Ticks are serialized: a cron firing and a hint arriving at
// the same moment still produce one evaluation at a time.
type Scheduler struct {
	watchFolder string
	locations   []string
	schedule    string

	tracker *tracker.Tracker
	writer  *snapshot.Writer
	pruner  *retention.Pruner
	hints   *mailbox.Mailbox[Hint]
	log     *slog.Logger

	runMu    sync.Mutex
	lastSlot time.Time // hour slot of the last write attempt
}

func New(
	watchFolder string,
	locations []string,
	schedule string,
	tr *tracker.Tracker,
	w *snapshot.Writer,
	p *retention.Pruner,
	hints *mailbox.Mailbox[Hint],
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		watchFolder: watchFolder,
		locations:   locations,
		schedule:    schedule,
		tracker:     tr,
		writer:      w,
		pruner:      p,
		hints:       hints,
		log:         log,
	}
}

// Run ticks once immediately, then on every cron firing and every
// watcher hint, until ctx is cancelled. It returns only on shutdown or
// on a schedule that cannot be parsed.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.locations) == 0 {
		return errors.New("no backup locations configured")
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		s.Tick(ctx, time.Now())
	}); err != nil {
		return fmt.Errorf("scheduling backup tick: %w", err)
	}

	s.log.Info("scheduler started",
		"watchFolder", s.watchFolder,
		"locations", len(s.locations),
		"schedule", s.schedule,
	)

	// First run: with no committed signature this always writes, so a
	// freshly configured warden backs up before the first cron firing.
	s.Tick(ctx, time.Now())

	c.Start()
	defer func() {
		stopped := c.Stop()
		<-stopped.Done()
	}()

	for {
		h, ok := s.hints.Take(ctx)
		if !ok {
			s.log.Info("scheduler stopped")
			return nil
		}
		s.log.Debug("change hint received", "at", h.At)
		s.Tick(ctx, time.Now())
	}
}

// Tick runs one full cycle for the given time. Exported so tests can
// drive cycles without cron.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	sig, changed, err := s.tracker.Check()
	if err != nil {
		// Includes ErrWatchFolderUnavailable: skip, retry next tick.
		s.log.Warn("skipping tick", "error", err)
		return
	}
	if !changed {
		s.log.Debug("no changes since last backup")
		return
	}

	slot := now.Truncate(time.Hour)
	if slot.Equal(s.lastSlot) {
		s.log.Debug("write already attempted this hour, deferring", "slot", slot)
		return
	}
	s.lastSlot = slot

	anySuccess := s.writeAll(ctx, now)
	if anySuccess {
		s.tracker.Commit(sig, now)
	}

	// Pruning runs whether or not the writes succeeded; eligibility
	// only depends on folder dates.
	s.pruneAll(ctx, now)
}

// writeAll snapshots into every location concurrently and reports
// whether at least one location succeeded. Locations are independent;
// one failing never stops the others.
func (s *Scheduler) writeAll(ctx context.Context, now time.Time) bool {
	results := make([]error, len(s.locations))

	var g errgroup.Group
	for i, loc := range s.locations {
		i, loc := i, loc
		g.Go(func() error {
			res, err := s.writer.Write(ctx, s.watchFolder, loc, now)
			results[i] = err
			if err != nil {
				s.log.Error("backup failed", "location", loc, "error", err)
				return err
			}
			s.log.Info("backup written", "location", loc, "daily", res.DailyPath)
			return nil
		})
	}
	_ = g.Wait()

	anySuccess := false
	for _, err := range results {
		if err == nil {
			anySuccess = true
			break
		}
	}
	if !anySuccess {
		s.log.Error("backup failed for all locations", "count", len(s.locations))
	}
	return anySuccess
}

func (s *Scheduler) pruneAll(ctx context.Context, now time.Time) {
	for _, loc := range s.locations {
		res := s.pruner.Prune(ctx, loc, now)
		for _, f := range res.Failures {
			s.log.Warn("prune failure", "location", loc, "error", f)
		}
		if len(res.Deleted) > 0 {
			s.log.Info("pruned expired snapshots", "location", loc, "count", len(res.Deleted))
		}
	}
}
