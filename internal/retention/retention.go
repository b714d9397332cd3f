// Package retention deletes daily snapshot folders that have aged out
// of the configured window. Monthly snapshots are permanent and are
// never touched here.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	wfs "github.com/vharren/backup-warden/internal/fs"
	"github.com/vharren/backup-warden/internal/snapshot"
)

// Pruner applies the daily-retention window to backup locations.
type Pruner struct {
	fs            wfs.FS
	log           *slog.Logger
	retentionDays int
}

func NewPruner(filesystem wfs.FS, log *slog.Logger, retentionDays int) *Pruner {
	if filesystem == nil {
		filesystem = wfs.New()
	}
	return &Pruner{fs: filesystem, log: log, retentionDays: retentionDays}
}

// FolderError records one daily folder that could not be deleted. The
// folder stays eligible and is retried on the next prune pass.
type FolderError struct {
	Path string
	Err  error
}

func (e FolderError) Error() string {
	return fmt.Sprintf("pruning %s: %v", e.Path, e.Err)
}

func (e FolderError) Unwrap() error { return e.Err }

// Result reports one prune pass over one location.
type Result struct {
	Location string
	Deleted  []string
	Failures []FolderError
}

// Prune deletes every daily folder under location whose date is
// strictly older than now minus the retention window. A folder dated
// exactly retentionDays ago is retained. Non-date folder names,
// including the monthly subtree, are left alone. Individual deletion
// failures do not stop the pass.
func (p *Pruner) Prune(ctx context.Context, location string, now time.Time) Result {
	res := Result{Location: location}

	cutoff := now.AddDate(0, 0, -p.retentionDays)
	cutoffDate := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	entries, err := p.fs.ReadDir(location)
	if err != nil {
		res.Failures = append(res.Failures, FolderError{Path: location, Err: err})
		return res
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, FolderError{Path: location, Err: err})
			return res
		}

		if !e.IsDir || e.Name == snapshot.MonthlyDir {
			continue
		}

		date, ok := snapshot.ParseDailyDate(e.Name)
		if !ok {
			continue
		}
		if !date.Before(cutoffDate) {
			continue
		}

		path := filepath.Join(location, e.Name)
		if err := p.fs.RemoveAll(path); err != nil {
			p.log.Warn("failed to delete expired snapshot", "path", path, "error", err)
			res.Failures = append(res.Failures, FolderError{Path: path, Err: err})
			continue
		}

		p.log.Info("deleted expired snapshot", "path", path)
		res.Deleted = append(res.Deleted, path)
	}

	return res
}
