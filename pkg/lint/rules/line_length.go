package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// LineLengthRule checks that lines do not exceed a maximum length.
type LineLengthRule struct {
	lint.BaseRule
}

// NewLineLengthRule creates a new line-length rule.
func NewLineLengthRule() *LineLengthRule {
	return &LineLengthRule{
		BaseRule: lint.NewBaseRule(
			"MD013",
			"line-length",
			"Line length",
			[]string{"line_length"},
		),
	}
}

// lineKind selects the limit that applies to a line.
type lineKind int

const (
	kindText lineKind = iota
	kindHeading
	kindCode
	kindTable
)

// Validate reports lines longer than the limit for their kind, counted in
// runes. Unless strict is set, a line is accepted when nothing past the limit
// contains whitespace, such as a long URL. A limit of zero or less disables
// the check for that kind.
func (r *LineLengthRule) Validate(rc *lint.RuleContext) []lint.Violation {
	limit := rc.OptionInt("line_length", 80)
	limits := map[lineKind]int{
		kindText:    limit,
		kindHeading: rc.OptionInt("heading_line_length", limit),
		kindCode:    rc.OptionInt("code_block_line_length", limit),
		kindTable:   limit,
	}
	checked := map[lineKind]bool{
		kindText:    true,
		kindHeading: rc.OptionBool("headings", true),
		kindCode:    rc.OptionBool("code_blocks", true),
		kindTable:   rc.OptionBool("tables", true),
	}
	strict := rc.OptionBool("strict", false)

	kinds := lineKinds(rc)

	var out []lint.Violation
	for idx, line := range rc.Lines {
		kind, ok := kinds[idx]
		if !ok || !checked[kind] || limits[kind] <= 0 {
			continue
		}

		maxLen := limits[kind]
		length := utf8.RuneCountInString(line)
		if length <= maxLen {
			continue
		}

		start := runeOffset(line, maxLen)
		if !strict && !strings.ContainsAny(line[start:], " \t") {
			continue
		}
		if kind == kindText && referenceDefinitionPattern.MatchString(line) {
			continue
		}

		out = append(out, lint.NewViolation(idx+1,
			fmt.Sprintf("Expected: %d; Actual: %d", maxLen, length),
			start, len(line)))
	}

	return out
}

// lineKinds classifies every checked line. Front matter is not included.
func lineKinds(rc *lint.RuleContext) map[int]lineKind {
	lines := rc.Lines
	layout := rc.Layout()

	kinds := make(map[int]lineKind, len(lines))
	for idx := layout.ContentStart(); idx < len(lines); idx++ {
		if layout.InCode(idx) {
			kinds[idx] = kindCode
		} else {
			kinds[idx] = kindText
		}
	}

	for _, h := range mdlines.Headings(lines, layout) {
		kinds[h.Index] = kindHeading
	}
	for _, table := range mdlines.Tables(lines, layout) {
		for idx := table.Start; idx <= table.End; idx++ {
			kinds[idx] = kindTable
		}
	}

	return kinds
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	for offset := range s {
		if n == 0 {
			return offset
		}
		n--
	}
	return len(s)
}
