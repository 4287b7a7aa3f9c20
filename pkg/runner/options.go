// Package runner lints and fixes sets of Markdown files concurrently.
package runner

import (
	"context"

	"github.com/yaklabco/mdfix/internal/configloader"
)

// Mode selects what the runner does with each file.
type Mode int

const (
	// ModeLint reports violations only.
	ModeLint Mode = iota
	// ModeFix applies fixers and reports what remains.
	ModeFix
)

// ConfigSource resolves the configuration for a file.
// *configloader.Loader implements it.
type ConfigSource interface {
	ForFile(ctx context.Context, path string) (*configloader.LoadResult, error)
}

// Options controls a run.
type Options struct {
	// Paths are files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and is the base for ignore
	// patterns. Defaults to the process working directory.
	WorkingDir string

	// Ignore holds glob patterns for files and directories to skip, matched
	// against slash-separated paths relative to WorkingDir and against base
	// names. "**" crosses directories; "*" does not.
	Ignore []string

	// Jobs caps concurrent workers. Zero or less means runtime.NumCPU().
	Jobs int

	Mode Mode

	// Rules restricts fixing to these rule IDs, names, or aliases.
	Rules []string

	// Write saves fixed content. Ignored in lint mode.
	Write bool

	// DryRun computes fixes and diffs without writing.
	DryRun bool

	// Backup keeps a copy of each file before its first rewrite.
	Backup bool

	// Configs resolves per-file configuration. Defaults to a
	// configloader.Loader rooted at WorkingDir.
	Configs ConfigSource
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) writes() bool {
	return o.Mode == ModeFix && o.Write && !o.DryRun
}
