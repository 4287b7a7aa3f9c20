package rules

import (
	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// BlanksAroundTablesRule checks that tables are surrounded by blank lines.
type BlanksAroundTablesRule struct {
	lint.BaseRule
}

// NewBlanksAroundTablesRule creates a new blanks-around-tables rule.
func NewBlanksAroundTablesRule() *BlanksAroundTablesRule {
	return &BlanksAroundTablesRule{
		BaseRule: lint.NewBaseRule(
			"MD058",
			"blanks-around-tables",
			"Tables should be surrounded by blank lines",
			[]string{"table", "blank_lines"},
		),
	}
}

// Validate reports the first and last row of tables touching other content.
func (r *BlanksAroundTablesRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, before bool) {
		detail := "Below"
		if before {
			detail = "Above"
		}
		out = append(out, lint.NewLineViolation(idx+1, detail))
	})
	return out
}

// Fix inserts the missing blank lines.
func (r *BlanksAroundTablesRule) Fix(rc *lint.RuleContext) []string {
	plan := newBlankPlan()
	r.scan(rc, func(idx int, before bool) {
		if before {
			plan.addBefore(idx, 1)
		} else {
			plan.addAfter(idx, 1)
		}
	})
	return plan.apply(rc.Lines)
}

func (r *BlanksAroundTablesRule) scan(rc *lint.RuleContext, report func(idx int, before bool)) {
	lines := rc.Lines
	layout := rc.Layout()

	for _, table := range mdlines.Tables(lines, layout) {
		if needsBlankBefore(lines, layout, table.Start) {
			report(table.Start, true)
		}
		if needsBlankAfter(lines, table.End) {
			report(table.End, false)
		}
	}
}
