package lint

import "github.com/yaklabco/mdfix/pkg/config"

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Fixable indicates whether the rule implements Fixer.
	Fixable bool

	// Options is the rule-specific configuration (may be nil).
	Options Options
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, sorted by ID.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr := resolveRule(rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	return ResolvedRule{
		Rule:    rule,
		Enabled: cfg.RuleEnabled(rule.ID()),
		Fixable: IsFixable(rule),
		Options: Options(cfg.RuleOptions(rule.ID())),
	}
}
