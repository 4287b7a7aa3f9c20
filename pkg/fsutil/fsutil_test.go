package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/pkg/fsutil"
)

func write(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	require.NoError(t, os.Chmod(path, mode))
}

func TestReadDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	write(t, path, "# Title\n", 0o600)

	content, snap, err := fsutil.ReadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(content))
	assert.Equal(t, path, snap.Path)
	assert.Equal(t, int64(8), snap.Size)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), snap.Mode)
	}

	_, _, err = fsutil.ReadDocument(context.Background(), filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadDocument(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadDocument(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.md")
	write(t, path, "alpha\n", 0o644)

	_, snap, err := fsutil.ReadDocument(context.Background(), path)
	require.NoError(t, err)

	changed, err := snap.Changed()
	require.NoError(t, err)
	assert.False(t, changed)

	write(t, path, "alphb\n", 0o644)
	changed, err = snap.Changed()
	require.NoError(t, err)
	assert.True(t, changed, "same size, different content")

	require.NoError(t, os.Remove(path))
	changed, err = snap.Changed()
	require.NoError(t, err)
	assert.True(t, changed, "deleted")
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		content  string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file", content: "hello\n", mode: 0o600, wantMode: 0o600},
		{name: "overwrite", existing: "old\n", content: "new\n", mode: 0o644, wantMode: 0o644},
		{name: "zero mode uses default", content: "x", wantMode: fsutil.DefaultFileMode},
		{name: "empty content", existing: "old\n", content: "", mode: 0o644, wantMode: 0o644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "doc.md")
			if tt.existing != "" {
				write(t, path, tt.existing, 0o644)
			}

			require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte(tt.content), tt.mode))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, tt.wantMode, info.Mode().Perm())
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files are cleaned up")
		})
	}
}

func TestWriteAtomic_Failure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing-dir", "doc.md")
	require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "a.md"), []byte("x"), 0), context.Canceled)
}

func TestReplace(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.md")
	write(t, path, "before\n", 0o640)

	_, snap, err := fsutil.ReadDocument(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, fsutil.Replace(context.Background(), snap, []byte("after\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(got))

	write(t, path, "edited elsewhere\n", 0o640)
	err = fsutil.Replace(context.Background(), snap, []byte("mine\n"))
	require.ErrorIs(t, err, fsutil.ErrModified)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited elsewhere\n", string(got))
}

func TestBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	write(t, path, "original\n", 0o644)

	created, err := fsutil.Backup(ctx, path)
	require.NoError(t, err)
	assert.True(t, created)

	write(t, path, "second\n", 0o644)
	created, err = fsutil.Backup(ctx, path)
	require.NoError(t, err)
	assert.False(t, created, "an existing backup is kept")

	got, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(got))
}
