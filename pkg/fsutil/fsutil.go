// Package fsutil reads and rewrites Markdown files without losing data: writes
// go through a temp file and rename, and a rewrite is refused when the file
// changed after it was read.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates the file cannot be accessed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates a directory was given where a file is needed.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrModified indicates the file changed between reading and writing.
	ErrModified = errors.New("file modified since read")
)

// Snapshot records a file as it was read.
type Snapshot struct {
	Path string
	Mode fs.FileMode
	Size int64
	Hash [sha256.Size]byte
}

// ReadDocument reads the file at path and returns its content with a
// Snapshot for later modification checks.
func ReadDocument(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Snapshot{
		Path: path,
		Mode: info.Mode().Perm(),
		Size: int64(len(content)),
		Hash: sha256.Sum256(content),
	}, nil
}

// Changed reports whether the file no longer matches the snapshot. A deleted
// file counts as changed.
func (s *Snapshot) Changed() (bool, error) {
	content, err := os.ReadFile(s.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}

	if int64(len(content)) != s.Size {
		return true, nil
	}
	return sha256.Sum256(content) != s.Hash, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
