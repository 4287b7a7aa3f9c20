package rules

import (
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// NoMultipleSpaceBlockquoteRule checks for multiple spaces after '>'.
type NoMultipleSpaceBlockquoteRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceBlockquoteRule creates a new no-multiple-space-blockquote rule.
func NewNoMultipleSpaceBlockquoteRule() *NoMultipleSpaceBlockquoteRule {
	return &NoMultipleSpaceBlockquoteRule{
		BaseRule: lint.NewBaseRule(
			"MD027",
			"no-multiple-space-blockquote",
			"Multiple spaces after blockquote symbol",
			[]string{"blockquote", "whitespace", "indentation"},
		),
	}
}

// Validate reports blockquote lines with two to four spaces after the last
// '>'. Five or more spaces start indented code and list items keep their
// indentation.
func (r *NoMultipleSpaceBlockquoteRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		if prefix, spaces, ok := extraQuoteSpaces(line); ok {
			out = append(out, lint.NewViolation(idx+1, "", prefix, prefix+spaces))
		}
	}
	return out
}

// Fix collapses the spacing to one space.
func (r *NoMultipleSpaceBlockquoteRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		if prefix, spaces, ok := extraQuoteSpaces(line); ok {
			return line[:prefix] + " " + line[prefix+spaces:]
		}
		return line
	})
}

// extraQuoteSpaces returns the length of the quote marker prefix and the
// number of spaces after it when there are too many.
func extraQuoteSpaces(line string) (prefix, spaces int, ok bool) {
	if !mdlines.IsBlockquote(line) {
		return 0, 0, false
	}

	prefix = quotePrefixLen(line)
	rest := line[prefix:]
	spaces = len(rest) - len(strings.TrimLeft(rest, " "))

	if spaces < 2 || spaces > 4 || spaces == len(rest) {
		return 0, 0, false
	}
	if _, isItem := mdlines.ParseListItem(rest[spaces:]); isItem {
		return 0, 0, false
	}

	return prefix, spaces, true
}

// quotePrefixLen returns the length of the leading "> > >" markers, stopping
// after the last '>'.
func quotePrefixLen(line string) int {
	pos := mdlines.LeadingSpaces(line)
	end := pos
	for pos < len(line) && line[pos] == '>' {
		pos++
		end = pos
		if pos+1 < len(line) && line[pos] == ' ' && line[pos+1] == '>' {
			pos++
		}
	}
	return end
}

// NoBlanksBlockquoteRule checks for blank lines between blockquotes.
type NoBlanksBlockquoteRule struct {
	lint.BaseRule
}

// NewNoBlanksBlockquoteRule creates a new no-blanks-blockquote rule.
func NewNoBlanksBlockquoteRule() *NoBlanksBlockquoteRule {
	return &NoBlanksBlockquoteRule{
		BaseRule: lint.NewBaseRule(
			"MD028",
			"no-blanks-blockquote",
			"Blank line inside blockquote",
			[]string{"blockquote", "whitespace"},
		),
	}
}

// Validate reports blank lines that separate two blockquotes.
func (r *NoBlanksBlockquoteRule) Validate(rc *lint.RuleContext) []lint.Violation {
	lines := rc.Lines
	layout := rc.Layout()

	var out []lint.Violation
	for idx := 0; idx < len(lines); idx++ {
		if !layout.IsProse(idx) || !mdlines.IsBlockquote(lines[idx]) {
			continue
		}

		next := idx + 1
		for next < len(lines) && layout.IsProse(next) && mdlines.IsBlank(lines[next]) {
			next++
		}
		if next == idx+1 || next >= len(lines) || !layout.IsProse(next) || !mdlines.IsBlockquote(lines[next]) {
			continue
		}

		for blank := idx + 1; blank < next; blank++ {
			out = append(out, lint.NewLineViolation(blank+1, ""))
		}
		idx = next - 1
	}

	return out
}
