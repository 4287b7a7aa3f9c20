package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

const maxSpacesPerTab = 16

// TrailingWhitespaceRule checks for trailing whitespace on lines.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates a new trailing whitespace rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"MD009",
			"no-trailing-spaces",
			"Trailing spaces",
			[]string{"whitespace"},
		),
	}
}

// Validate reports prose lines ending in whitespace. A run of exactly
// br_spaces spaces after text is a hard line break and is allowed unless
// strict is set.
func (r *TrailingWhitespaceRule) Validate(rc *lint.RuleContext) []lint.Violation {
	brSpaces := rc.OptionInt("br_spaces", 2)
	strict := rc.OptionBool("strict", false)
	layout := rc.Layout()

	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !layout.IsProse(idx) {
			continue
		}

		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) || allowedBreak(line, trimmed, brSpaces, strict) {
			continue
		}

		expected := "0"
		if brSpaces >= 2 && !strict {
			expected = fmt.Sprintf("0 or %d", brSpaces)
		}
		out = append(out, lint.NewViolation(idx+1,
			fmt.Sprintf("Expected: %s; Actual: %d", expected, len(line)-len(trimmed)),
			len(trimmed), len(line)))
	}

	return out
}

// Fix removes trailing whitespace that is not an allowed line break.
func (r *TrailingWhitespaceRule) Fix(rc *lint.RuleContext) []string {
	brSpaces := rc.OptionInt("br_spaces", 2)
	strict := rc.OptionBool("strict", false)

	return mapProse(rc, func(_ int, line string) string {
		trimmed := strings.TrimRight(line, " \t")
		if allowedBreak(line, trimmed, brSpaces, strict) {
			return line
		}
		return trimmed
	})
}

func allowedBreak(line, trimmed string, brSpaces int, strict bool) bool {
	if strict || brSpaces < 2 || strings.TrimSpace(trimmed) == "" {
		return false
	}
	tail := line[len(trimmed):]
	return len(tail) == brSpaces && strings.Count(tail, " ") == brSpaces
}

// HardTabsRule checks for hard tab characters.
type HardTabsRule struct {
	lint.BaseRule
}

// NewHardTabsRule creates a new hard tabs rule.
func NewHardTabsRule() *HardTabsRule {
	return &HardTabsRule{
		BaseRule: lint.NewBaseRule(
			"MD010",
			"no-hard-tabs",
			"Hard tabs",
			[]string{"whitespace", "hard_tab"},
		),
	}
}

// Validate reports the first hard tab on each checked line.
func (r *HardTabsRule) Validate(rc *lint.RuleContext) []lint.Violation {
	codeBlocks := rc.OptionBool("code_blocks", true)
	layout := rc.Layout()

	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !tabLineChecked(layout, idx, codeBlocks) {
			continue
		}
		if col := strings.IndexByte(line, '\t'); col >= 0 {
			out = append(out, lint.NewViolation(idx+1, fmt.Sprintf("Column: %d", col+1), col, col+1))
		}
	}

	return out
}

// Fix replaces each hard tab with spaces_per_tab spaces.
func (r *HardTabsRule) Fix(rc *lint.RuleContext) []string {
	codeBlocks := rc.OptionBool("code_blocks", true)
	spaces := rc.OptionInt("spaces_per_tab", 1)
	if spaces < 0 {
		spaces = 1
	}
	replacement := strings.Repeat(" ", min(spaces, maxSpacesPerTab))

	layout := rc.Layout()
	out := rc.CopyLines()
	for idx, line := range out {
		if tabLineChecked(layout, idx, codeBlocks) {
			out[idx] = strings.ReplaceAll(line, "\t", replacement)
		}
	}

	return out
}

func tabLineChecked(layout *mdlines.Layout, idx int, codeBlocks bool) bool {
	return layout.IsProse(idx) || (codeBlocks && layout.InCode(idx))
}

// MultipleBlankLinesRule checks for runs of consecutive blank lines.
type MultipleBlankLinesRule struct {
	lint.BaseRule
}

// NewMultipleBlankLinesRule creates a new multiple blank lines rule.
func NewMultipleBlankLinesRule() *MultipleBlankLinesRule {
	return &MultipleBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD012",
			"no-multiple-blanks",
			"Multiple consecutive blank lines",
			[]string{"whitespace", "blank_lines"},
		),
	}
}

// Aliases returns the legacy markdownlint name of the rule.
func (r *MultipleBlankLinesRule) Aliases() []string {
	return []string{"no-multiple-blank-lines"}
}

// Validate reports every blank line beyond maximum in a run of blank lines
// outside code blocks.
func (r *MultipleBlankLinesRule) Validate(rc *lint.RuleContext) []lint.Violation {
	maximum := max(rc.OptionInt("maximum", 1), 0)

	var out []lint.Violation
	r.scan(rc, maximum, func(idx, run int) {
		out = append(out, lint.NewLineViolation(idx+1, fmt.Sprintf("Expected: %d; Actual: %d", maximum, run)))
	})

	return out
}

// Fix removes the blank lines Validate reports.
func (r *MultipleBlankLinesRule) Fix(rc *lint.RuleContext) []string {
	maximum := max(rc.OptionInt("maximum", 1), 0)

	drop := make(map[int]bool)
	r.scan(rc, maximum, func(idx, _ int) { drop[idx] = true })
	if len(drop) == 0 {
		return rc.CopyLines()
	}

	out := make([]string, 0, len(rc.Lines)-len(drop))
	for idx, line := range rc.Lines {
		if !drop[idx] {
			out = append(out, line)
		}
	}

	return out
}

// scan calls report for each excess blank line with the length of the run so far.
func (r *MultipleBlankLinesRule) scan(rc *lint.RuleContext, maximum int, report func(idx, run int)) {
	layout := rc.Layout()
	run := 0
	for idx := range contentLen(rc.Lines) {
		if !layout.IsProse(idx) || !mdlines.IsBlank(rc.Lines[idx]) {
			run = 0
			continue
		}
		run++
		if run > maximum {
			report(idx, run)
		}
	}
}

// FinalNewlineRule checks that files end with a single newline.
type FinalNewlineRule struct {
	lint.BaseRule
}

// NewFinalNewlineRule creates a new final newline rule.
func NewFinalNewlineRule() *FinalNewlineRule {
	return &FinalNewlineRule{
		BaseRule: lint.NewBaseRule(
			"MD047",
			"single-trailing-newline",
			"Files should end with a single newline character",
			[]string{"blank_lines"},
		),
	}
}

// Validate reports a document whose last line is not newline terminated.
func (r *FinalNewlineRule) Validate(rc *lint.RuleContext) []lint.Violation {
	n := len(rc.Lines)
	if n == 0 || rc.Lines[n-1] == "" {
		return nil
	}
	last := rc.Lines[n-1]
	return []lint.Violation{lint.NewViolation(n, "", len(last), len(last))}
}

// Fix appends the missing newline.
func (r *FinalNewlineRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	if n := len(out); n > 0 && out[n-1] != "" {
		out = append(out, "")
	}
	return out
}
