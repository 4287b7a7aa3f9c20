package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfix/internal/configloader"
	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/analysis"
	"github.com/yaklabco/mdfix/pkg/config"
	"github.com/yaklabco/mdfix/pkg/lint"
	_ "github.com/yaklabco/mdfix/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/mdfix/pkg/reporter"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// runFlags are the flags shared by lint and fix.
type runFlags struct {
	format     string
	sort       string
	ignore     []string
	enable     []string
	disable    []string
	lineLength int
	jobs       int
	noEnv      bool
	noContext  bool
	compact    bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags, defaultFormat string) {
	cmd.Flags().StringVar(&flags.format, "format", defaultFormat, "output format: text, json, diff, sarif, summary")
	cmd.Flags().StringVar(&flags.sort, "sort", "count", "summary table order: count, alpha")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs, names, or tags to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs, names, or tags to disable")
	cmd.Flags().IntVar(&flags.lineLength, "line-length", 0, "override MD013 line_length (0 = from config)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "ignore MDFIX_* environment variables")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write compact JSON")
}

// cliConfig holds the settings given on the command line.
func (f *runFlags) cliConfig() *config.Config {
	cfg := &config.Config{
		EnableRules:  f.enable,
		DisableRules: f.disable,
	}
	if f.lineLength > 0 {
		cfg.SetRule("MD013", config.RuleConfig{Options: map[string]any{"line_length": f.lineLength}})
	}
	return cfg
}

// session wires the pieces a lint or fix run needs.
type session struct {
	load     configloader.LoadOptions
	linter   *lint.Linter
	runner   *runner.Runner
	reporter reporter.Reporter
	options  runner.Options
}

func newSession(cmd *cobra.Command, args []string, global *globalFlags, flags *runFlags, fixRun, dryRun bool) (*session, error) {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return nil, errors.Join(ErrInvalidUsage, err)
	}

	sortBy, err := analysis.ParseSortField(flags.sort)
	if err != nil {
		return nil, errors.Join(ErrInvalidUsage, err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	registry := lint.DefaultRegistry
	linter := lint.NewLinter(registry)
	linter.Telemetry = lint.NewTelemetry()

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       global.color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		Fix:         fixRun,
		DryRun:      dryRun,
		Registry:    registry,
		SortBy:      sortBy,
		Version:     cmd.Root().Version,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}

	load := configloader.LoadOptions{
		Root:         workDir,
		ExplicitPath: global.configPath,
		IgnoreEnv:    flags.noEnv,
		CLIConfig:    flags.cliConfig(),
		Registry:     registry,
	}

	return &session{
		load:     load,
		linter:   linter,
		runner:   runner.New(linter),
		reporter: rep,
		options: runner.Options{
			Paths:      args,
			WorkingDir: workDir,
			Ignore:     flags.ignore,
			Jobs:       flags.jobs,
			Configs:    configloader.NewLoader(load),
		},
	}, nil
}

// run executes the session and reports the result.
func (s *session) run(ctx context.Context) (*runner.Result, error) {
	logger := logging.FromContext(ctx)

	// An unusable explicit file or environment override fails the run up
	// front instead of once per file.
	if _, err := configloader.Load(ctx, s.options.WorkingDir, s.load); err != nil {
		return nil, classifyRunError(err)
	}

	logger.Debug("Starting run",
		logging.FieldPaths, s.options.Paths,
		logging.FieldWorkers, s.options.Jobs,
	)

	result, err := s.runner.Run(ctx, s.options)
	if err != nil {
		return nil, classifyRunError(err)
	}

	warned := make(map[string]bool)
	for _, file := range result.Files {
		for _, warning := range file.Warnings {
			if !warned[warning] {
				warned[warning] = true
				logger.Warn(warning, logging.FieldConfig, file.ConfigSource)
			}
		}
		if file.Error != nil {
			logger.Error("Failed to process file", logging.FieldPath, file.Display, logging.FieldError, file.Error)
		}
	}

	if fallbacks := s.linter.Telemetry.Fallbacks(); fallbacks > 0 {
		logger.Debug("Rules degraded to defaults",
			logging.FieldFallback, fallbacks,
			logging.FieldRules, s.linter.Telemetry.FallbacksByRule(),
		)
	}

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return nil, fmt.Errorf("report results: %w", err)
	}

	return result, nil
}

func classifyRunError(err error) error {
	switch {
	case errors.Is(err, runner.ErrFileNotFound):
		return errors.Join(ErrIO, err)
	case errors.Is(err, runner.ErrInvalidPattern):
		return errors.Join(ErrInvalidUsage, err)
	case errors.Is(err, configloader.ErrConfig):
		return errors.Join(ErrConfig, err)
	default:
		return err
	}
}
