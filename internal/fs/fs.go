// Package fs defines the filesystem abstraction used by backup-warden.
// It provides the FS interface and the FileInfo type shared across the
// snapshot writer and the retention pruner.
package fs

import (
	"context"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Inode uint64
}

type FS interface {
	Stat(path string) (FileInfo, error)
	CopyFile(ctx context.Context, src, dst string) error
	Rename(ctx context.Context, oldPath, newPath string) error
	MkdirAll(path string) error
	RemoveAll(path string) error
	ReadDir(path string) ([]DirEntry, error)
}

// DirEntry is the subset of os.DirEntry the pruner and writer need.
type DirEntry struct {
	Name  string
	IsDir bool
}
