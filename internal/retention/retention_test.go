package retention

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	wfs "github.com/vharren/backup-warden/internal/fs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func dirNames(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

// removeFaultFS fails RemoveAll for one specific path.
type removeFaultFS struct {
	wfs.FS
	failPath string
}

var errLocked = errors.New("injected delete failure")

func (f *removeFaultFS) RemoveAll(path string) error {
	if path == f.failPath {
		return errLocked
	}
	return f.FS.RemoveAll(path)
}

func TestPruner_Prune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("retention boundary", func(t *testing.T) {
		loc := t.TempDir()
		// 31 days old: eligible. 30 days old: exactly on the
		// boundary, retained.
		mkdirs(t, loc,
			"2024-02-13/09",
			"2024-02-14/09",
			"2024-03-14/09",
		)

		p := NewPruner(nil, discardLogger(), 30)
		res := p.Prune(ctx, loc, now)

		if len(res.Failures) != 0 {
			t.Fatalf("unexpected failures: %v", res.Failures)
		}
		if len(res.Deleted) != 1 || filepath.Base(res.Deleted[0]) != "2024-02-13" {
			t.Errorf("Deleted = %v, want exactly 2024-02-13", res.Deleted)
		}

		got := dirNames(t, loc)
		want := []string{"2024-02-14", "2024-03-14"}
		if !slices.Equal(got, want) {
			t.Errorf("remaining folders = %v, want %v", got, want)
		}
	})

	t.Run("monthly subtree is immune", func(t *testing.T) {
		loc := t.TempDir()
		mkdirs(t, loc,
			"2023-01-01/09",
			"monthly/2022-06",
			"monthly/2023-01",
		)

		p := NewPruner(nil, discardLogger(), 30)
		res := p.Prune(ctx, loc, now)

		if len(res.Deleted) != 1 {
			t.Fatalf("Deleted = %v, want only the daily folder", res.Deleted)
		}
		got := dirNames(t, filepath.Join(loc, "monthly"))
		want := []string{"2022-06", "2023-01"}
		if !slices.Equal(got, want) {
			t.Errorf("monthly folders = %v, want untouched %v", got, want)
		}
	})

	t.Run("non-date folders are ignored", func(t *testing.T) {
		loc := t.TempDir()
		mkdirs(t, loc, "lost+found", ".tmp-09", "2020-01-01")

		p := NewPruner(nil, discardLogger(), 30)
		res := p.Prune(ctx, loc, now)

		if len(res.Deleted) != 1 || filepath.Base(res.Deleted[0]) != "2020-01-01" {
			t.Errorf("Deleted = %v, want exactly 2020-01-01", res.Deleted)
		}
		got := dirNames(t, loc)
		want := []string{".tmp-09", "lost+found"}
		if !slices.Equal(got, want) {
			t.Errorf("remaining folders = %v, want %v", got, want)
		}
	})

	t.Run("a failed deletion does not stop the pass", func(t *testing.T) {
		loc := t.TempDir()
		mkdirs(t, loc, "2024-01-01", "2024-01-02", "2024-01-03")

		fsys := &removeFaultFS{FS: wfs.New(), failPath: filepath.Join(loc, "2024-01-02")}
		p := NewPruner(fsys, discardLogger(), 30)
		res := p.Prune(ctx, loc, now)

		if len(res.Deleted) != 2 {
			t.Errorf("Deleted = %v, want the two deletable folders", res.Deleted)
		}
		if len(res.Failures) != 1 {
			t.Fatalf("Failures = %v, want exactly one", res.Failures)
		}
		if !errors.Is(res.Failures[0], errLocked) {
			t.Error("failure must wrap the underlying delete error")
		}
	})

	t.Run("idempotent with no elapsed time", func(t *testing.T) {
		loc := t.TempDir()
		mkdirs(t, loc, "2024-02-13", "2024-03-01")

		p := NewPruner(nil, discardLogger(), 30)
		first := p.Prune(ctx, loc, now)
		if len(first.Deleted) != 1 {
			t.Fatalf("first pass Deleted = %v", first.Deleted)
		}

		second := p.Prune(ctx, loc, now)
		if len(second.Deleted) != 0 || len(second.Failures) != 0 {
			t.Errorf("second pass must be a no-op, got %+v", second)
		}
	})

	t.Run("unreadable location is surfaced, not fatal", func(t *testing.T) {
		p := NewPruner(nil, discardLogger(), 30)
		res := p.Prune(ctx, filepath.Join(t.TempDir(), "gone"), now)
		if len(res.Failures) != 1 {
			t.Errorf("expected one failure for a missing location, got %+v", res)
		}
	})
}
