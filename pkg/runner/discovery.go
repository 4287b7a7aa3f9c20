package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ErrFileNotFound is returned when a path given to the runner does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidPattern is returned for an ignore glob that does not compile.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// skippedDirs are never descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Matcher tests paths against ignore globs.
type Matcher struct {
	globs []glob.Glob
}

// CompileIgnore compiles ignore patterns into a Matcher.
func CompileIgnore(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether rel, a path relative to the working directory, is
// ignored. Directories also match patterns that cover their contents, so
// "docs/**" excludes the docs directory itself.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, g := range m.globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
		if isDir && g.Match(rel+"/") {
			return true
		}
	}
	return false
}

// Discover expands opts.Paths into a sorted, duplicate-free list of absolute
// Markdown file paths. Named files are kept whatever their extension;
// directories are walked for .md and .markdown files, skipping hidden,
// VCS, and dependency directories.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := workingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	ignore, err := CompileIgnore(opts.Ignore)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !ignore.Match(relative(workDir, abs), false) {
				files = append(files, abs)
			}
			continue
		}

		found, err := walk(ctx, abs, workDir, ignore)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func walk(ctx context.Context, root, workDir string, ignore *Matcher) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		rel := relative(workDir, path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			name := entry.Name()
			if strings.HasPrefix(name, ".") || skippedDirs[name] || ignore.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") || !IsMarkdown(path) || ignore.Match(rel, false) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil //nolint:nilerr // Broken or non-file links are skipped.
			}
		} else if !entry.Type().IsRegular() {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

func workingDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}

func relative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
