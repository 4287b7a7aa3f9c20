package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxDirLength bounds the length of a directory accepted for config lookup.
const maxDirLength = 1024

// ErrUnsafePath is returned for directories that may not be searched for
// configuration: empty, containing NUL, traversing with "..", too long, or
// resolving outside the workspace root.
var ErrUnsafePath = errors.New("unsafe configuration directory")

// configFileNames are the markdownlint configuration files looked up in each
// directory, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var configFileNames = []string{
	".markdownlint.json",
	".markdownlint.jsonc",
	".markdownlint.yaml",
	".markdownlint.yml",
}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// SafeDir resolves dir to a real path inside root. Relative directories are
// taken relative to root.
func SafeDir(root, dir string) (string, error) {
	if dir == "" || strings.ContainsRune(dir, 0) || len(dir) > maxDirLength {
		return "", ErrUnsafePath
	}

	realRoot, err := realPath(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	candidate := dir
	if !filepath.IsAbs(dir) {
		segments := strings.FieldsFunc(dir, func(r rune) bool { return r == '/' || r == '\\' })
		for _, segment := range segments {
			if segment == ".." {
				return "", ErrUnsafePath
			}
		}
		candidate = filepath.Join(append([]string{realRoot}, segments...)...)
	}

	resolved, err := realPath(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsafePath, err)
	}
	if !within(realRoot, resolved) {
		return "", ErrUnsafePath
	}

	return resolved, nil
}

// FindConfig searches dir and its parents, up to root or the nearest VCS
// root, for a markdownlint configuration file. It returns "" when none
// exists.
func FindConfig(ctx context.Context, root, dir string) (string, error) {
	current, err := SafeDir(root, dir)
	if err != nil {
		return "", err
	}

	realRoot, err := realPath(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		for _, name := range configFileNames {
			path := filepath.Join(current, name)
			if fileExists(path) {
				return path, nil
			}
		}

		if current == realRoot || isVCSRoot(current) {
			return "", nil
		}

		parent := filepath.Dir(current)
		if parent == current || !within(realRoot, parent) {
			return "", nil
		}
		current = parent
	}
}

func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("eval symlinks: %w", err)
	}
	return resolved, nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DetectFormat returns "json", "yaml", or "unknown" from a file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "unknown"
	}
}
