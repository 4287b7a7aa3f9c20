package lint

import (
	"strings"

	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// RuleContext provides everything a rule needs for one Validate or Fix call.
// It is created per invocation and must not be retained by rules.
type RuleContext struct {
	// Lines is the document. Rules must not modify it.
	Lines []string

	// Options holds the rule's configured options (may be nil).
	Options Options

	// Telemetry receives advisory counters (may be nil).
	Telemetry *Telemetry

	layout *mdlines.Layout
}

// NewRuleContext creates a RuleContext for the given lines and options.
func NewRuleContext(lines []string, opts map[string]any) *RuleContext {
	return &RuleContext{
		Lines:   lines,
		Options: Options(opts),
	}
}

// Layout returns the code block and front matter classification of the
// document, computing it on first use.
func (rc *RuleContext) Layout() *mdlines.Layout {
	if rc.layout == nil {
		rc.layout = mdlines.NewLayout(rc.Lines)
	}
	return rc.layout
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	return rc.Options.Int(key, defaultValue)
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	return rc.Options.String(key, defaultValue)
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	return rc.Options.Bool(key, defaultValue)
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	return rc.Options.StringSlice(key, defaultValue)
}

// CopyLines returns a copy of the document that a fixer may modify.
func (rc *RuleContext) CopyLines() []string {
	out := make([]string, len(rc.Lines))
	copy(out, rc.Lines)
	return out
}

// SplitLines converts content into lines by splitting on "\n". A trailing
// newline yields a final empty line, so JoinLines(SplitLines(s)) == s.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// JoinLines joins lines with "\n".
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
