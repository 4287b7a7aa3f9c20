// Package configloader resolves the configuration that applies to a Markdown
// file: built-in defaults, the nearest markdownlint configuration file,
// environment overrides, and command-line settings.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/config"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// ErrConfig marks configuration that cannot be used: an explicit file that is
// missing or malformed, or an invalid environment override.
var ErrConfig = errors.New("invalid configuration")

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// Root is the workspace root. Configuration is never read from outside
	// it. Defaults to the current working directory.
	Root string

	// ExplicitPath is a config file given with --config. When set, discovery
	// is skipped and a missing or malformed file is an error.
	ExplicitPath string

	// IgnoreEnv skips MDFIX_* environment overrides.
	IgnoreEnv bool

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// CLIConfig holds settings from command-line flags; it takes precedence
	// over everything else.
	CLIConfig *config.Config

	// Registry resolves rule names, aliases, and tags. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult is a resolved configuration.
type LoadResult struct {
	Config *config.Config

	// Source is the configuration file used, or "" for built-in defaults.
	Source string

	// Warnings describes ignored or invalid settings.
	Warnings []string
}

// Load resolves the configuration for documents in dir. Precedence, highest
// first:
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDFIX_*)
//  3. The explicit file, or the nearest .markdownlint.* file
//  4. Built-in defaults
//
// A configuration file replaces the built-in defaults rather than merging
// with them. A directory that is unsafe to search, or a file that cannot be
// parsed, yields the defaults.
func Load(ctx context.Context, dir string, opts LoadOptions) (*LoadResult, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	cfg, err := loadBase(ctx, dir, opts, result)
	if err != nil {
		return nil, err
	}

	result.Warnings = append(result.Warnings, cfg.Normalize(opts.Registry)...)

	if !opts.IgnoreEnv {
		warnings, err := LoadFromEnv(cfg, opts.Registry, opts.Getenv)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			return nil, fmt.Errorf("%w: load environment: %w", ErrConfig, err)
		}
	}

	if opts.CLIConfig != nil {
		cli := opts.CLIConfig.Clone()
		result.Warnings = append(result.Warnings, cli.Normalize(opts.Registry)...)
		cfg = merge(cfg, cli)
	}

	result.Warnings = append(result.Warnings, Validate(cfg)...)
	result.Config = cfg

	return result, nil
}

// LoadForFile resolves the configuration for the Markdown file at path.
func LoadForFile(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error) {
	return Load(ctx, filepath.Dir(path), opts)
}

func (o LoadOptions) withDefaults() (LoadOptions, error) {
	if o.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("get working directory: %w", err)
		}
		o.Root = wd
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.Registry == nil {
		o.Registry = lint.DefaultRegistry
	}
	return o, nil
}

func loadBase(ctx context.Context, dir string, opts LoadOptions, result *LoadResult) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	if opts.ExplicitPath != "" {
		cfg, warnings, err := ReadFile(opts.ExplicitPath)
		if err != nil {
			return nil, fmt.Errorf("%w: load explicit config: %w", ErrConfig, err)
		}
		result.Source = opts.ExplicitPath
		result.Warnings = append(result.Warnings, warnings...)
		return cfg, nil
	}

	path, err := FindConfig(ctx, opts.Root, dir)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case err != nil:
		logger.Debug("Using default configuration", logging.FieldDir, dir, logging.FieldError, err)
		return config.NewConfig(), nil
	case path == "":
		return config.NewConfig(), nil
	}

	cfg, warnings, err := ReadFile(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using default configuration", err))
		return config.NewConfig(), nil
	}

	logger.Debug("Loaded configuration", logging.FieldConfig, path)
	result.Source = path
	result.Warnings = append(result.Warnings, warnings...)
	return cfg, nil
}

// Loader caches resolved configurations by directory. It is safe for
// concurrent use.
type Loader struct {
	opts LoadOptions

	mu    sync.Mutex
	byDir map[string]*LoadResult
}

// NewLoader creates a Loader that resolves with opts.
func NewLoader(opts LoadOptions) *Loader {
	return &Loader{opts: opts, byDir: make(map[string]*LoadResult)}
}

// ForFile returns the configuration for the file at path. Results are shared
// between files in the same directory and must not be modified.
func (l *Loader) ForFile(ctx context.Context, path string) (*LoadResult, error) {
	dir := filepath.Dir(path)

	l.mu.Lock()
	cached, ok := l.byDir[dir]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	result, err := LoadForFile(ctx, path, l.opts)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.byDir[dir] = result
	l.mu.Unlock()

	return result, nil
}
