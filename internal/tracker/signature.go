// Package tracker decides whether the watched folder changed since the
// last successful backup, without reading file contents.
package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"
)

// ErrWatchFolderUnavailable marks a tick where the watched folder could
// not be walked. The scheduler skips the tick and retries on the next.
var ErrWatchFolderUnavailable = errors.New("watch folder unavailable")

// Signature summarizes the modification state of a folder tree. Two
// equal signatures mean no additions, deletions, renames or
// mtime-visible modifications happened in between.
type Signature struct {
	Files      int
	TotalSize  int64
	LatestMod  time.Time
	TreeDigest uint64
}

// Equal reports whether s and other describe the same tree state.
func (s Signature) Equal(other Signature) bool {
	return s.Files == other.Files &&
		s.TotalSize == other.TotalSize &&
		s.LatestMod.Equal(other.LatestMod) &&
		s.TreeDigest == other.TreeDigest
}

// Zero reports whether s is the absence of a signature (never computed).
func (s Signature) Zero() bool {
	return s == Signature{}
}

// ComputeSignature walks root and derives its Signature. The digest
// covers every entry's relative path, size and mtime, so it catches
// renames and touch-only edits that leave count and total size alone.
// Any walk error makes the whole tree count as unavailable; a partially
// walked signature would masquerade as a mass deletion.
func ComputeSignature(root string) (Signature, error) {
	var sig Signature
	h := xxh3.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		mod := info.ModTime()
		if mod.After(sig.LatestMod) {
			sig.LatestMod = mod
		}

		var size int64
		if d.Type().IsRegular() {
			size = info.Size()
			sig.Files++
			sig.TotalSize += size
		}

		fmt.Fprintf(h, "%s|%d|%d\n", filepath.ToSlash(rel), size, mod.UnixNano())
		return nil
	})
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %s: %w", ErrWatchFolderUnavailable, root, err)
	}

	sig.TreeDigest = h.Sum64()
	return sig, nil
}
