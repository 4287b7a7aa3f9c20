// Package analysis aggregates run results by rule and by file.
package analysis

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// SortField specifies how to order ByRule and ByFile.
type SortField string

const (
	// SortByCount puts the most issues first.
	SortByCount SortField = "count"
	// SortByAlpha orders by rule ID or path.
	SortByAlpha SortField = "alpha"
)

// ParseSortField parses a sort flag value; "" means SortByCount.
func ParseSortField(value string) (SortField, error) {
	switch SortField(value) {
	case "", SortByCount:
		return SortByCount, nil
	case SortByAlpha:
		return SortByAlpha, nil
	}
	return "", fmt.Errorf("unknown sort order %q; valid orders: count, alpha", value)
}

// Options configures Analyze.
type Options struct {
	SortBy SortField

	// Registry decides which rules are fixable. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry
}

type ruleAcc struct {
	RuleAnalysis
	files map[string]bool
}

type fileAcc struct {
	FileAnalysis
	rules map[string]bool
}

// Analyze walks result once and builds the per-rule and per-file views. In
// a fix run, issues that the fixers removed are counted as Fixed against
// their rule and file.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{ByRule: []RuleAnalysis{}, ByFile: []FileAnalysis{}}
	if result == nil {
		return report
	}
	if opts.Registry == nil {
		opts.Registry = lint.DefaultRegistry
	}

	rules := make(map[string]*ruleAcc)
	rule := func(id, name string) *ruleAcc {
		acc, ok := rules[id]
		if !ok {
			acc = &ruleAcc{RuleAnalysis: RuleAnalysis{RuleID: id, RuleName: name}, files: make(map[string]bool)}
			if r, found := opts.Registry.GetByID(id); found {
				acc.Fixable = lint.IsFixable(r)
			}
			rules[id] = acc
		}
		return acc
	}

	var files []*fileAcc
	for _, outcome := range result.Files {
		if outcome.Skipped {
			continue
		}
		report.Totals.Files++

		file := &fileAcc{FileAnalysis: FileAnalysis{Path: outcome.Display}, rules: make(map[string]bool)}
		for _, v := range outcome.Violations {
			file.Issues++
			file.rules[v.RuleID] = true

			acc := rule(v.RuleID, v.RuleName)
			acc.Issues++
			acc.files[outcome.Display] = true
			if acc.Fixable {
				report.Totals.Fixable++
			}
		}

		if outcome.Fix != nil {
			for id, fixed := range fixedByRule(outcome.Fix) {
				acc := rule(id, ruleName(outcome.Fix.Before, id))
				acc.Fixed += fixed
				file.Fixed += fixed
				report.Totals.Fixed += fixed
			}
		}

		report.Totals.Issues += file.Issues
		if file.Issues > 0 {
			report.Totals.FilesWithIssues++
		}
		if file.Issues > 0 || file.Fixed > 0 {
			files = append(files, file)
		}
	}

	for _, acc := range rules {
		acc.Files = slices.Sorted(maps.Keys(acc.files))
		report.ByRule = append(report.ByRule, acc.RuleAnalysis)
	}
	for _, acc := range files {
		acc.Rules = slices.Sorted(maps.Keys(acc.rules))
		report.ByFile = append(report.ByFile, acc.FileAnalysis)
	}

	sortRules(report.ByRule, opts.SortBy)
	sortFiles(report.ByFile, opts.SortBy)

	return report
}

// fixedByRule counts, per rule, how many violations disappeared.
func fixedByRule(fr *lint.FixResult) map[string]int {
	counts := make(map[string]int)
	for _, v := range fr.Before {
		counts[v.RuleID]++
	}
	for _, v := range fr.After {
		counts[v.RuleID]--
	}
	for id, n := range counts {
		if n <= 0 {
			delete(counts, id)
		}
	}
	return counts
}

func ruleName(violations []lint.Violation, id string) string {
	for _, v := range violations {
		if v.RuleID == id {
			return v.RuleName
		}
	}
	return ""
}

func sortRules(rules []RuleAnalysis, sortBy SortField) {
	slices.SortFunc(rules, func(a, b RuleAnalysis) int {
		if sortBy != SortByAlpha {
			if c := cmp.Compare(b.Issues+b.Fixed, a.Issues+a.Fixed); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})
}

func sortFiles(files []FileAnalysis, sortBy SortField) {
	slices.SortFunc(files, func(a, b FileAnalysis) int {
		if sortBy != SortByAlpha {
			if c := cmp.Compare(b.Issues+b.Fixed, a.Issues+a.Fixed); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Path, b.Path)
	})
}
