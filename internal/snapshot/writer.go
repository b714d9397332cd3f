package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	wfs "github.com/vharren/backup-warden/internal/fs"
)

// Writer copies the watched folder into dated snapshot directories.
// Each write lands in a temp dir first and is renamed into place, so a
// backup location never exposes a half-written snapshot.
type Writer struct {
	fs  wfs.FS
	log *slog.Logger
}

func NewWriter(filesystem wfs.FS, log *slog.Logger) *Writer {
	if filesystem == nil {
		filesystem = wfs.New()
	}
	return &Writer{fs: filesystem, log: log}
}

// WriteResult describes one completed snapshot for one location.
type WriteResult struct {
	Location  string
	DailyPath string
	MonthPath string
}

// PartialCopyError reports a write that could not copy the full tree.
// The destination slot is left untouched; only the temp dir was written
// and it has been removed.
type PartialCopyError struct {
	Location string
	Path     string // file or directory that failed, when known
	Err      error
}

func (e *PartialCopyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("partial copy into %s: %s: %v", e.Location, e.Path, e.Err)
	}
	return fmt.Sprintf("partial copy into %s: %v", e.Location, e.Err)
}

func (e *PartialCopyError) Unwrap() error { return e.Err }

// Write snapshots watchFolder into location for the hour slot of ts.
// The daily slot <location>/<date>/<hour> is replaced if it already
// exists, and on success the monthly slot <location>/monthly/<month>
// is replaced with the same content, so the monthly snapshot always
// mirrors the latest write observed in that month.
func (w *Writer) Write(ctx context.Context, watchFolder, location string, ts time.Time) (WriteResult, error) {
	res := WriteResult{
		Location:  location,
		DailyPath: DailyPath(location, ts),
		MonthPath: MonthPath(location, ts),
	}

	dayDir := filepath.Dir(res.DailyPath)
	tmpDaily := filepath.Join(dayDir, ".tmp-"+ts.Format(hourFormat))

	if err := w.stageTree(ctx, watchFolder, tmpDaily, location); err != nil {
		return res, err
	}
	if err := w.publish(ctx, tmpDaily, res.DailyPath); err != nil {
		return res, fmt.Errorf("finalizing daily snapshot: %w", err)
	}

	w.log.Debug("daily snapshot written", "location", location, "path", res.DailyPath)

	// The monthly mirror is copied from the daily slot rather than
	// the source, so both slots hold the exact same bytes even if the
	// watched folder changed in between.
	tmpMonth := filepath.Join(location, MonthlyDir, ".tmp-"+ts.Format(monthFormat))
	if err := w.stageTree(ctx, res.DailyPath, tmpMonth, location); err != nil {
		return res, err
	}
	if err := w.publish(ctx, tmpMonth, res.MonthPath); err != nil {
		return res, fmt.Errorf("finalizing monthly snapshot: %w", err)
	}

	w.log.Debug("monthly snapshot refreshed", "location", location, "path", res.MonthPath)

	return res, nil
}

// stageTree copies src recursively into the temp dir dst, removing dst
// on any failure.
func (w *Writer) stageTree(ctx context.Context, src, dst, location string) error {
	if err := w.fs.MkdirAll(dst); err != nil {
		return &PartialCopyError{Location: location, Path: dst, Err: err}
	}
	if err := w.copyTree(ctx, src, dst); err != nil {
		_ = w.fs.RemoveAll(dst)
		return &PartialCopyError{Location: location, Path: src, Err: err}
	}
	return nil
}

// publish swaps the staged temp dir into the final slot, replacing any
// previous content for that slot.
func (w *Writer) publish(ctx context.Context, tmp, final string) error {
	if err := w.fs.RemoveAll(final); err != nil {
		_ = w.fs.RemoveAll(tmp)
		return err
	}
	if err := w.fs.Rename(ctx, tmp, final); err != nil {
		_ = w.fs.RemoveAll(tmp)
		return err
	}
	return nil
}

// copyTree walks src and reproduces every directory and regular file
// under dst. The walk reads the live source; writes go through the FS
// abstraction so failures can be injected in tests.
func (w *Writer) copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return w.fs.MkdirAll(target)
		case d.Type().IsRegular():
			return w.fs.CopyFile(ctx, path, target)
		default:
			// Sockets, devices and symlinks have no place in a
			// folder backup; skip them.
			w.log.Debug("skipping irregular file", "path", path)
			return nil
		}
	})
}
