package configloader

import (
	"maps"

	"github.com/yaklabco/mdfix/pkg/config"
)

// merge combines two configurations, with override taking precedence:
//   - rules merge per ID; Enabled replaces when set, options merge by key
//   - ignore patterns and enable/disable lists accumulate
//   - Default comes from base, since an unset bool cannot be told from false
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()
	for id, rc := range override.Rules {
		result.SetRule(id, mergeRuleConfig(result.Rules[id], rc))
	}

	result.Ignore = append(result.Ignore, override.Ignore...)
	result.EnableRules = append(result.EnableRules, override.EnableRules...)
	result.DisableRules = append(result.DisableRules, override.DisableRules...)

	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := config.RuleConfig{
		Enabled: base.Enabled,
		Options: maps.Clone(base.Options),
	}

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if len(override.Options) > 0 {
		if result.Options == nil {
			result.Options = make(map[string]any, len(override.Options))
		}
		maps.Copy(result.Options, override.Options)
	}

	return result
}
