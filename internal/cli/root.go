// Package cli provides the Cobra command structure for mdfix.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfix/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

func (g *globalFlags) level() string {
	if g.debug {
		return "debug"
	}
	return "info"
}

// NewRootCommand creates the root mdfix command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "mdfix",
		Version: info.Version,
		Short:   "Lint and deterministically fix Markdown files",
		Long: `mdfix checks Markdown files against the markdownlint rule catalog and
rewrites them to fix what it can.

Every fix works on raw lines, never touches fenced or indented code, and is
idempotent: running fix twice changes nothing the second time. Configuration
is read from the nearest .markdownlint.json, .jsonc, .yaml, or .yml file.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logging.New(cmd.ErrOrStderr(), global.level())
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to a markdownlint config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand(global))
	rootCmd.AddCommand(newFixCommand(global))
	rootCmd.AddCommand(newConfigCommand(global))
	rootCmd.AddCommand(newRulesCommand(global))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(global.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
