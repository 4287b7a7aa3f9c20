// Package config defines the configuration model for mdfix.
// These types are plain data; discovery and file loading live in
// internal/configloader.
package config

import (
	"fmt"
	"slices"
	"sort"
)

// Built-in defaults applied when no configuration file is found.
const (
	DefaultLineLength = 120
)

// RuleConfig holds per-rule configuration.
type RuleConfig struct {
	// Enabled overrides Config.Default for this rule when non-nil.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Options holds rule-specific settings such as line_length or names.
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Default decides whether rules without an explicit setting run.
	Default bool `yaml:"default" json:"default"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" json:"-"`

	// DisableRules contains rule IDs to explicitly disable. Disabling wins
	// over enabling.
	DisableRules []string `yaml:"-" json:"-"`
}

// NewConfig returns the built-in configuration: every rule enabled, long lines
// allowed up to DefaultLineLength, inline HTML permitted, and no requirement
// that a document start with a heading.
func NewConfig() *Config {
	return &Config{
		Default: true,
		Rules: map[string]RuleConfig{
			"MD013": {Options: map[string]any{"line_length": DefaultLineLength}},
			"MD033": {Enabled: boolPtr(false)},
			"MD041": {Enabled: boolPtr(false)},
		},
	}
}

// RuleEnabled reports whether the rule with the given ID should run.
// A nil Config enables every rule.
func (c *Config) RuleEnabled(id string) bool {
	if c == nil {
		return true
	}
	if slices.Contains(c.DisableRules, id) {
		return false
	}
	if slices.Contains(c.EnableRules, id) {
		return true
	}
	if rc, ok := c.Rules[id]; ok && rc.Enabled != nil {
		return *rc.Enabled
	}
	return c.Default
}

// RuleOptions returns the options configured for a rule, or nil.
func (c *Config) RuleOptions(id string) map[string]any {
	if c == nil {
		return nil
	}
	return c.Rules[id].Options
}

// SetRule records the configuration for a rule ID, replacing any previous one.
func (c *Config) SetRule(id string, rc RuleConfig) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	c.Rules[id] = rc
}

// KeyResolver maps a configuration key to the rule IDs it refers to. A key may
// be a rule ID, a rule name, a legacy alias, or a tag naming a group of rules.
type KeyResolver interface {
	ResolveKey(key string) []string
}

// Normalize rewrites rule keys to canonical rule IDs. Tag keys expand to every
// rule carrying the tag without overriding rules configured by ID or name.
// Unknown keys are dropped. The returned warnings describe every dropped or
// conflicting key.
func (c *Config) Normalize(resolver KeyResolver) []string {
	if c == nil || len(c.Rules) == 0 || resolver == nil {
		return nil
	}

	keys := make([]string, 0, len(c.Rules))
	for key := range c.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	normalized := make(map[string]RuleConfig, len(c.Rules))
	direct := make(map[string]string)

	// Group keys first so explicit rule settings win over tag settings.
	for _, key := range keys {
		ids := resolver.ResolveKey(key)
		if len(ids) != 1 {
			continue
		}

		id := ids[0]
		if previous, ok := direct[id]; ok {
			warnings = append(warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					previous, key, id, key))
		}
		direct[id] = key
		normalized[id] = c.Rules[key]
	}

	for _, key := range keys {
		ids := resolver.ResolveKey(key)
		switch {
		case len(ids) == 0:
			warnings = append(warnings, fmt.Sprintf("unknown rule %q; skipping", key))
		case len(ids) > 1:
			for _, id := range ids {
				if _, ok := direct[id]; !ok {
					normalized[id] = c.Rules[key]
				}
			}
		}
	}

	c.Rules = normalized
	return warnings
}

func boolPtr(b bool) *bool {
	return &b
}
