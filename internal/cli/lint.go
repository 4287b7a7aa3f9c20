package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/runner"
)

func newLintCommand(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Markdown files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, global, flags)
		},
	}

	addRunFlags(cmd, flags, "text")

	return cmd
}

const lintLongDescription = `Lint Markdown files for style and syntax issues.

By default, lints all .md and .markdown files in the current directory
and subdirectories. Specify paths to lint specific files or directories.
Exits with status 1 when any issue is found.

Examples:
  mdfix lint                         # Lint current directory
  mdfix lint docs/ README.md         # Lint a directory and a file
  mdfix lint --disable MD013         # Skip the line-length rule
  mdfix lint --format json           # Output as JSON for CI
  mdfix lint --format sarif > out.sarif`

func runLint(cmd *cobra.Command, args []string, global *globalFlags, flags *runFlags) error {
	sess, err := newSession(cmd, args, global, flags, false, false)
	if err != nil {
		return err
	}
	sess.options.Mode = runner.ModeLint

	ctx := cmd.Context()
	result, err := sess.run(ctx)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("Lint complete",
		logging.FieldFiles, result.Stats.FilesProcessed,
		logging.FieldIssues, result.Stats.Issues,
	)

	if result.HasIssues() {
		return ErrLintIssuesFound
	}
	if result.HasErrors() {
		return fmt.Errorf("%w: %d file(s) could not be processed", ErrIO, result.Stats.FilesErrored)
	}

	return nil
}
