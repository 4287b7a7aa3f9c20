package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdfix/internal/configloader"
	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/config"
	"github.com/yaklabco/mdfix/pkg/fsutil"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

const formatJSON = "json"

// configView is the JSON form of `mdfix config`.
type configView struct {
	Source       string         `json:"source"`
	Config       map[string]any `json:"config"`
	FixableRules []string       `json:"fixableRules"`
	Warnings     []string       `json:"warnings,omitempty"`
}

func newConfigCommand(global *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Show the effective configuration",
		Long: `Show the configuration that applies to files in path (default: the
current directory), in markdownlint format, together with the rules that
mdfix can fix automatically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			return runConfigShow(cmd, global, target, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml, json")

	cmd.AddCommand(newConfigConvertCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func runConfigShow(cmd *cobra.Command, global *globalFlags, target, format string) error {
	if format != "yaml" && format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, format)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dir, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	ctx := cmd.Context()
	result, err := configloader.Load(ctx, dir, configloader.LoadOptions{
		Root:         workDir,
		ExplicitPath: global.configPath,
	})
	if err != nil {
		return classifyRunError(err)
	}

	logger := logging.FromContext(ctx)
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	view := configView{
		Source:       result.Source,
		Config:       result.Config.ToMarkdownlint(),
		FixableRules: lint.GetImplementedRules(),
		Warnings:     result.Warnings,
	}

	if format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}
		return nil
	}

	return writeConfigYAML(cmd.OutOrStdout(), view)
}

func writeConfigYAML(w io.Writer, view configView) error {
	source := view.Source
	if source == "" {
		source = "built-in defaults"
	}

	fmt.Fprintf(w, "# source: %s\n", source)
	fmt.Fprintf(w, "# fixable: %s\n", strings.Join(view.FixableRules, ", "))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(config.YAMLIndent)
	if err := enc.Encode(view.Config); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

type convertFlags struct {
	force  bool
	output string
}

func newConfigConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Normalize a markdownlint configuration to YAML",
		Long: `Rewrite a markdownlint configuration file (.markdownlint.json, .jsonc,
.yaml, or .yml) as YAML keyed by rule ID. Rule names, aliases, and tags
are resolved to IDs; unsupported keys are reported and dropped.

If no input file is given, the nearest configuration file in the current
directory is used. Output goes to stdout unless --output is set.

Examples:
  mdfix config convert                                 Print the current config as YAML
  mdfix config convert .markdownlint.json -o .markdownlint.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runConfigConvert(cmd, input, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: stdout)")

	return cmd
}

func runConfigConvert(cmd *cobra.Command, input string, flags *convertFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if input == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		found, err := configloader.FindConfig(ctx, cwd, cwd)
		if err != nil {
			return fmt.Errorf("find configuration: %w", err)
		}
		if found == "" {
			return fmt.Errorf("%w: no markdownlint configuration file found in current directory", ErrConfig)
		}
		logger.Info("Found markdownlint config", logging.FieldPath, found)
		input = found
	}

	content, warnings, err := configloader.Convert(input, lint.DefaultRegistry)
	if err != nil {
		return errors.Join(ErrConfig, err)
	}
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	if flags.output == "" || flags.output == "-" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	if err := writeNewFile(ctx, flags.output, content, flags.force); err != nil {
		return err
	}
	logger.Info("Wrote configuration", logging.FieldPath, flags.output)
	return nil
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables mdfix reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			slices.Sort(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintf(out, "%-18s %s\n", name, vars[name])
			}
			return nil
		},
	}
}

// writeNewFile writes content to path, refusing to replace an existing file
// unless force is set.
func writeNewFile(ctx context.Context, path string, content []byte, force bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !force {
		return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, path)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("%w: write file: %w", ErrIO, err)
	}
	return nil
}
