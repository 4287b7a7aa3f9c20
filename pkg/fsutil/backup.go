package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".mdfix.bak"

// BackupPath returns where the backup of path is kept.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies the file at path next to it. An existing backup is kept, so
// repeated fix runs preserve the oldest content. It reports whether a backup
// was written.
func Backup(ctx context.Context, path string) (bool, error) {
	target := BackupPath(path)
	if _, err := os.Stat(target); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, snap, err := ReadDocument(ctx, path)
	if err != nil {
		return false, fmt.Errorf("backup: %w", err)
	}
	if err := WriteAtomic(ctx, target, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}

	return true, nil
}
