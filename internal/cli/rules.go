package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdfix/internal/configloader"
	"github.com/yaklabco/mdfix/internal/ui/pretty"
	"github.com/yaklabco/mdfix/pkg/config"
	"github.com/yaklabco/mdfix/pkg/lint"
)

type rulesFlags struct {
	format string
	tag    string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Fixable     bool     `json:"fixable"`
	Enabled     bool     `json:"enabled"`
}

func newRulesCommand(global *globalFlags) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, names, and descriptions,
marking the ones mdfix can fix and the ones the current configuration
turns off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag")

	return cmd
}

func runRules(cmd *cobra.Command, global *globalFlags, flags *rulesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	loaded, err := configloader.Load(cmd.Context(), workDir, configloader.LoadOptions{
		Root:         workDir,
		ExplicitPath: global.configPath,
	})
	if err != nil {
		return classifyRunError(err)
	}

	infos := collectRules(lint.DefaultRegistry, loaded.Config, flags.tag)

	if flags.format == formatJSON {
		return outputRulesJSON(cmd.OutOrStdout(), infos)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No rules match.")
		return nil
	}

	rows := make([]pretty.RuleRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, pretty.RuleRow{
			ID:          info.ID,
			Name:        info.Name,
			Fixable:     info.Fixable,
			Enabled:     info.Enabled,
			Description: info.Description,
		})
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))
	fmt.Fprint(out, styles.RuleTable(rows, pretty.Width(out)))
	return nil
}

func collectRules(registry *lint.Registry, cfg *config.Config, tag string) []ruleInfo {
	rules := registry.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		if tag != "" && !slices.Contains(rule.Tags(), tag) {
			continue
		}
		info := ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Tags:        rule.Tags(),
			Fixable:     lint.IsFixable(rule),
			Enabled:     cfg.RuleEnabled(rule.ID()),
		}
		if aliased, ok := rule.(lint.Aliased); ok {
			info.Aliases = aliased.Aliases()
		}
		infos = append(infos, info)
	}
	return infos
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
