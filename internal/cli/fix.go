package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/runner"
)

type fixFlags struct {
	runFlags

	write  bool
	dryRun bool
	backup bool
	rules  []string
	strict bool
}

func newFixCommand(global *globalFlags) *cobra.Command {
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Fix Markdown files in place",
		Long: `Apply every available fixer to Markdown files and report what remains.

Fixers run in the order their rules first report a violation. Fenced and
indented code is never modified. Files are rewritten atomically, and a file
that changed on disk while it was being fixed is left alone.

Examples:
  mdfix fix                          # Fix everything under the current directory
  mdfix fix --dry-run                # Show a unified diff, write nothing
  mdfix fix --rules MD009,MD047      # Only strip trailing spaces and fix the final newline
  mdfix fix --backup docs/           # Keep a .mdfix.bak copy of each changed file`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, global, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags, "text")
	cmd.Flags().BoolVar(&flags.write, "write", true, "write fixed content back to the files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show fixes as a diff without writing")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a backup of each file before rewriting it")
	cmd.Flags().StringSliceVar(&flags.rules, "rules", nil, "restrict fixing to these rule IDs or names")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 1 when issues remain after fixing")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, global *globalFlags, flags *fixFlags) error {
	// A dry run previews as a diff unless another format was asked for.
	if flags.dryRun && !cmd.Flags().Changed("format") {
		flags.format = "diff"
	}

	sess, err := newSession(cmd, args, global, &flags.runFlags, true, flags.dryRun)
	if err != nil {
		return err
	}
	sess.options.Mode = runner.ModeFix
	sess.options.Write = flags.write
	sess.options.DryRun = flags.dryRun
	sess.options.Backup = flags.backup
	sess.options.Rules = flags.rules

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	if len(flags.rules) > 0 {
		logger.Info("Applying fixes for rules", logging.FieldRules, flags.rules)
	}

	result, err := sess.run(ctx)
	if err != nil {
		return err
	}

	stats := result.Stats
	logger.Debug("Fix complete",
		logging.FieldFilesModified, stats.FilesModified,
		logging.FieldFixes, stats.EstimatedFixes,
		logging.FieldIssues, stats.IssuesBefore,
		logging.FieldRemain, stats.Issues,
	)

	if result.HasErrors() {
		return fmt.Errorf("%w: %d file(s) could not be processed", ErrIO, stats.FilesErrored)
	}
	if flags.strict && result.HasIssues() {
		return ErrLintIssuesFound
	}

	return nil
}
