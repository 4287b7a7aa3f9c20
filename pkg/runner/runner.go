package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdfix/internal/configloader"
	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/fix"
	"github.com/yaklabco/mdfix/pkg/fsutil"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// Runner processes files with a Linter. A Runner is safe for concurrent use.
type Runner struct {
	Linter *lint.Linter
}

// New creates a Runner.
func New(linter *lint.Linter) *Runner {
	return &Runner{Linter: linter}
}

// Run discovers the files named by opts and lints or fixes them on a pool of
// workers. Each file gets its own configuration and lines, so workers share
// nothing but the read-only registry and the telemetry counters. Per-file
// failures are reported in the outcomes; the returned error covers discovery
// and cancellation only.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	workDir, err := workingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}
	opts.WorkingDir = workDir

	if opts.Configs == nil {
		opts.Configs = configloader.NewLoader(configloader.LoadOptions{
			Root:     workDir,
			Registry: r.Linter.Registry,
		})
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("Discovered files", logging.FieldFiles, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for idx, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[idx] = r.processFile(groupCtx, path, opts)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: Stats{FilesDiscovered: len(files), IssuesByRule: make(map[string]int)},
	}
	for _, outcome := range outcomes {
		result.add(outcome)
	}

	return result, nil
}

func (r *Runner) processFile(ctx context.Context, path string, opts Options) FileOutcome {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	outcome := FileOutcome{Path: path, Display: relative(opts.WorkingDir, path)}

	loaded, err := opts.Configs.ForFile(ctx, path)
	if err != nil {
		outcome.Error = fmt.Errorf("load configuration: %w", err)
		return outcome
	}
	outcome.ConfigSource = loaded.Source
	outcome.Warnings = loaded.Warnings

	ignore, err := CompileIgnore(loaded.Config.Ignore)
	if err != nil {
		outcome.Warnings = append(outcome.Warnings, err.Error())
	} else if ignore.Match(outcome.Display, false) {
		logger.Debug("Ignored by configuration")
		outcome.Skipped = true
		return outcome
	}

	content, snap, err := fsutil.ReadDocument(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	lines := lint.SplitLines(string(content))
	outcome.Lines = lines

	if opts.Mode == ModeLint {
		outcome.Violations, outcome.Error = r.Linter.Lint(lines, loaded.Config)
		logger.Debug("Linted", logging.FieldIssues, len(outcome.Violations))
		return outcome
	}

	result, err := r.Linter.Fix(lines, loaded.Config, lint.FixOptions{Rules: opts.Rules})
	if result == nil {
		outcome.Error = err
		return outcome
	}
	outcome.Error = err
	outcome.Fix = result
	outcome.Violations = result.After
	outcome.Lines = result.Lines

	if len(result.RulesApplied) > 0 {
		logger.Debug("Applied fixes", logging.FieldRules, result.RulesApplied)
	}
	if !result.Changed {
		return outcome
	}

	outcome.Diff = fix.GenerateDiff(outcome.Display, lines, result.Lines)

	if !opts.writes() {
		return outcome
	}

	if opts.Backup {
		if _, err := fsutil.Backup(ctx, path); err != nil {
			outcome.Error = err
			return outcome
		}
	}
	if err := fsutil.Replace(ctx, snap, []byte(lint.JoinLines(result.Lines))); err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Written = true
	logger.Info("Wrote fixed content", logging.FieldFixes, result.EstimatedFixes)
	return outcome
}
