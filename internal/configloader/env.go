package configloader

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/yaklabco/mdfix/pkg/config"
)

// Environment variables read by LoadFromEnv.
const (
	EnvDisable    = "MDFIX_DISABLE"
	EnvEnable     = "MDFIX_ENABLE"
	EnvLineLength = "MDFIX_LINE_LENGTH"
	EnvIgnore     = "MDFIX_IGNORE"
)

// lineLengthRule is the rule that MDFIX_LINE_LENGTH configures.
const lineLengthRule = "MD013"

// LoadFromEnv applies environment overrides to cfg. Rule lists accept IDs,
// names, aliases, and tags. Unknown rule keys are reported as warnings; an
// invalid line length is an error.
func LoadFromEnv(cfg *config.Config, resolver config.KeyResolver, getenv func(string) string) ([]string, error) {
	if cfg == nil || getenv == nil {
		return nil, nil
	}

	var warnings []string

	resolve := func(envVar string) []string {
		var ids []string
		for _, key := range parseSliceValue(getenv(envVar)) {
			resolved := resolver.ResolveKey(key)
			if len(resolved) == 0 {
				warnings = append(warnings, fmt.Sprintf("%s: unknown rule %q; skipping", envVar, key))
				continue
			}
			ids = append(ids, resolved...)
		}
		return ids
	}

	cfg.DisableRules = append(cfg.DisableRules, resolve(EnvDisable)...)
	cfg.EnableRules = append(cfg.EnableRules, resolve(EnvEnable)...)

	if value := strings.TrimSpace(getenv(EnvLineLength)); value != "" {
		length, err := strconv.Atoi(value)
		if err != nil || length < 0 {
			return warnings, fmt.Errorf("invalid integer for %s: %q", EnvLineLength, value)
		}

		rc := cfg.Rules[lineLengthRule]
		rc.Options = maps.Clone(rc.Options)
		if rc.Options == nil {
			rc.Options = make(map[string]any)
		}
		rc.Options["line_length"] = length
		cfg.SetRule(lineLengthRule, rc)
	}

	cfg.Ignore = append(cfg.Ignore, parseSliceValue(getenv(EnvIgnore))...)

	return warnings, nil
}

// parseSliceValue splits a comma-separated list, dropping empty elements.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars describes the supported environment variables.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvDisable:    "Comma-separated rules to disable (IDs, names, aliases, or tags)",
		EnvEnable:     "Comma-separated rules to enable (IDs, names, aliases, or tags)",
		EnvLineLength: "Maximum line length for MD013",
		EnvIgnore:     "Comma-separated glob patterns of files to skip",
	}
}
