package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// HRStyleRule checks that thematic breaks are written the same way.
type HRStyleRule struct {
	lint.BaseRule
}

// NewHRStyleRule creates a new hr-style rule.
func NewHRStyleRule() *HRStyleRule {
	return &HRStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD035",
			"hr-style",
			"Horizontal rule style",
			[]string{"hr"},
		),
	}
}

// Validate reports thematic breaks that differ from the configured style, or
// from the first one in the document when style is "consistent" or not itself
// a thematic break.
func (r *HRStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, want, got string) {
		out = append(out, lint.NewLineViolation(idx+1, fmt.Sprintf("Expected: %s; Actual: %s", want, got)))
	})
	return out
}

// Fix replaces each reported break with the expected text. A dash rule is
// not written directly under paragraph text, where it would become a setext
// underline.
func (r *HRStyleRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	layout := rc.Layout()

	r.scan(rc, func(idx int, want, _ string) {
		if strings.HasPrefix(want, "-") && idx > 0 && layout.IsProse(idx-1) &&
			!mdlines.IsBlank(rc.Lines[idx-1]) {
			return
		}
		out[idx] = want
	})

	return out
}

func (r *HRStyleRule) scan(rc *lint.RuleContext, report func(idx int, want, got string)) {
	style := strings.TrimSpace(rc.OptionString("style", styleConsistent))
	if !mdlines.IsThematicBreak(style) {
		style = ""
	}

	lines := rc.Lines
	layout := rc.Layout()
	for idx, line := range lines {
		if !layout.IsProse(idx) || !mdlines.IsThematicBreak(line) {
			continue
		}
		if mdlines.SetextLevel(line) > 0 && idx > 0 && layout.IsProse(idx-1) &&
			!mdlines.IsBlank(lines[idx-1]) && !startsBlock(lines[idx-1]) {
			continue
		}

		got := strings.TrimSpace(line)
		if style == "" {
			style = got
			continue
		}
		if got != style {
			report(idx, style, got)
		}
	}
}
