package config

import (
	"fmt"
	"maps"
	"sort"
)

// Keys with special meaning in markdownlint configuration documents.
const (
	keyDefault = "default"
	keyExtends = "extends"
	keySchema  = "$schema"
)

// FromMarkdownlint converts a decoded markdownlint configuration document
// (the contents of .markdownlint.json or .markdownlint.yaml) into a Config.
//
// Each remaining key is a rule ID, name, alias, or tag whose value is true,
// false, null, or an options object. Keys are kept as written; call Normalize
// to map them to rule IDs. The warnings describe ignored settings.
func FromMarkdownlint(raw map[string]any) (*Config, []string) {
	cfg := &Config{
		Default: true,
		Rules:   make(map[string]RuleConfig),
	}

	var warnings []string

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]

		switch key {
		case keyDefault:
			enabled, ok := value.(bool)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%q must be a boolean; using true", keyDefault))
				continue
			}
			cfg.Default = enabled
		case keyExtends:
			warnings = append(warnings, fmt.Sprintf("%q is not supported; merge %v manually", keyExtends, value))
		case keySchema:
		default:
			cfg.Rules[key] = convertRuleValue(value)
		}
	}

	return cfg, warnings
}

// ToMarkdownlint renders the configuration as a markdownlint document.
func (c *Config) ToMarkdownlint() map[string]any {
	doc := map[string]any{keyDefault: c.Default}

	for id, rc := range c.Rules {
		switch {
		case len(rc.Options) > 0 && (rc.Enabled == nil || *rc.Enabled):
			doc[id] = maps.Clone(rc.Options)
		case rc.Enabled != nil:
			doc[id] = *rc.Enabled
		}
	}

	return doc
}

// convertRuleValue converts a markdownlint rule value to a RuleConfig.
func convertRuleValue(value any) RuleConfig {
	switch typed := value.(type) {
	case bool:
		return RuleConfig{Enabled: boolPtr(typed)}
	case map[string]any:
		return RuleConfig{Enabled: boolPtr(true), Options: maps.Clone(typed)}
	case nil:
		return RuleConfig{Enabled: boolPtr(false)}
	default:
		return RuleConfig{Enabled: boolPtr(true)}
	}
}
