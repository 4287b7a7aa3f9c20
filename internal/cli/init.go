package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdfix/internal/logging"
	"github.com/yaklabco/mdfix/pkg/config"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a markdownlint configuration file",
		Long: `Create a .markdownlint.yaml file in the current directory holding the
built-in defaults. The file is plain markdownlint configuration, so other
markdownlint tools read it too.

Examples:
  mdfix init                      Create a minimal .markdownlint.yaml
  mdfix init --full               List every rule, each with its description
  mdfix init --format json        Create .markdownlint.json instead
  mdfix init --output lint.yaml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every rule with its description")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .markdownlint.yaml or .markdownlint.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".markdownlint.yaml"
		if flags.format == formatJSON {
			outputPath = ".markdownlint.json"
		}
	}

	content, err := initTemplate(config.NewConfig(), lint.DefaultRegistry, flags.full, flags.format)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := cmd.Context()
	if err := writeNewFile(ctx, outputPath, content, flags.force); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Info("Created configuration file", logging.FieldPath, outputPath)
	logger.Info("Run 'mdfix rules' to see all available rules")

	return nil
}

// initTemplate renders cfg as a markdownlint document. With full set, every
// registered rule is listed with its effective enabled state; YAML output
// carries each rule's name and description as a comment.
func initTemplate(cfg *config.Config, registry *lint.Registry, full bool, format string) ([]byte, error) {
	doc := cfg.ToMarkdownlint()
	if full {
		for _, rule := range registry.Rules() {
			if _, set := doc[rule.ID()]; !set {
				doc[rule.ID()] = cfg.RuleEnabled(rule.ID())
			}
		}
	}

	if format == formatJSON {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	// "default" first, then rules in ID order.
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "default":
			return -1
		case b == "default":
			return 1
		case a < b:
			return -1
		default:
			return 1
		}
	})

	for _, key := range keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		if rule, ok := registry.GetByID(key); ok && full {
			keyNode.HeadComment = fmt.Sprintf("# %s: %s", rule.Name(), rule.Description())
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(doc[key]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		root.Content = append(root.Content, keyNode, valueNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(config.YAMLIndent)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}
