package rules

import (
	"regexp"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// htmlTagPattern matches an opening or closing HTML tag name. Autolinks such
// as <https://example.com> do not match because the name is followed by ':'.
var htmlTagPattern = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9-]*)(?:[\s/>]|$)`)

// InlineHTMLRule checks for raw HTML in Markdown.
type InlineHTMLRule struct {
	lint.BaseRule
}

// NewInlineHTMLRule creates a new no-inline-html rule.
func NewInlineHTMLRule() *InlineHTMLRule {
	return &InlineHTMLRule{
		BaseRule: lint.NewBaseRule(
			"MD033",
			"no-inline-html",
			"Inline HTML",
			[]string{"html"},
		),
	}
}

// Validate reports opening tags of elements not listed in allowed_elements.
// Element names compare case-insensitively.
func (r *InlineHTMLRule) Validate(rc *lint.RuleContext) []lint.Violation {
	allowed := make(map[string]bool)
	for _, name := range rc.OptionStringSlice("allowed_elements", nil) {
		allowed[strings.ToLower(name)] = true
	}

	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}

		masked := mdlines.MaskCodeSpans(line)
		for _, loc := range htmlTagPattern.FindAllStringSubmatchIndex(masked, -1) {
			if loc[3] > loc[2] {
				continue
			}
			name := strings.ToLower(masked[loc[4]:loc[5]])
			if allowed[name] {
				continue
			}
			out = append(out, lint.NewViolation(idx+1, "Element: "+name, loc[0], loc[5]+1))
		}
	}

	return out
}
