package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/pkg/lint"
	_ "github.com/yaklabco/mdfix/pkg/lint/rules" // Register rules
	"github.com/yaklabco/mdfix/pkg/runner"
)

func violation(id, name string, line int) lint.Violation {
	return lint.Violation{RuleID: id, RuleName: name, LineNumber: line}
}

func lintResult() *runner.Result {
	return &runner.Result{Files: []runner.FileOutcome{
		{
			Display: "a.md",
			Violations: []lint.Violation{
				violation("MD001", "heading-increment", 3),
				violation("MD009", "no-trailing-spaces", 1),
				violation("MD009", "no-trailing-spaces", 2),
			},
		},
		{Display: "b.md"},
		{
			Display:    "c.md",
			Violations: []lint.Violation{violation("MD009", "no-trailing-spaces", 7)},
		},
		{Display: "skipped.md", Skipped: true},
	}}
}

func TestAnalyze_Nil(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, Options{})
	require.NotNil(t, report)
	assert.Empty(t, report.ByRule)
	assert.Empty(t, report.ByFile)
	assert.Zero(t, report.Totals)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(lintResult(), Options{})

	assert.Equal(t, Totals{Files: 3, FilesWithIssues: 2, Issues: 4, Fixable: 3}, report.Totals)
}

func TestAnalyze_ByRule(t *testing.T) {
	t.Parallel()

	report := Analyze(lintResult(), Options{SortBy: SortByCount})

	assert.Equal(t, []RuleAnalysis{
		{RuleID: "MD009", RuleName: "no-trailing-spaces", Issues: 3, Fixable: true, Files: []string{"a.md", "c.md"}},
		{RuleID: "MD001", RuleName: "heading-increment", Issues: 1, Files: []string{"a.md"}},
	}, report.ByRule)
}

func TestAnalyze_ByFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sortBy SortField
		want   []string
	}{
		{name: "count", sortBy: SortByCount, want: []string{"a.md", "c.md"}},
		{name: "alpha", sortBy: SortByAlpha, want: []string{"a.md", "c.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := Analyze(lintResult(), Options{SortBy: tt.sortBy})
			paths := make([]string, 0, len(report.ByFile))
			for _, file := range report.ByFile {
				paths = append(paths, file.Path)
			}
			assert.Equal(t, tt.want, paths)
			assert.Equal(t, []string{"MD001", "MD009"}, report.ByFile[0].Rules)
		})
	}
}

func TestAnalyze_AlphaOrdersRules(t *testing.T) {
	t.Parallel()

	report := Analyze(lintResult(), Options{SortBy: SortByAlpha})
	require.Len(t, report.ByRule, 2)
	assert.Equal(t, "MD001", report.ByRule[0].RuleID)
	assert.Equal(t, "MD009", report.ByRule[1].RuleID)
}

func TestAnalyze_FixRun(t *testing.T) {
	t.Parallel()

	before := []lint.Violation{
		violation("MD009", "no-trailing-spaces", 1),
		violation("MD009", "no-trailing-spaces", 4),
		violation("MD013", "line-length", 2),
	}
	after := []lint.Violation{violation("MD013", "line-length", 2)}

	result := &runner.Result{Files: []runner.FileOutcome{{
		Display:    "doc.md",
		Violations: after,
		Fix:        &lint.FixResult{Before: before, After: after, Changed: true},
	}}}

	report := Analyze(result, Options{})

	assert.Equal(t, Totals{Files: 1, FilesWithIssues: 1, Issues: 1, Fixed: 2}, report.Totals)
	require.Len(t, report.ByRule, 2)
	assert.Equal(t, RuleAnalysis{RuleID: "MD009", RuleName: "no-trailing-spaces", Fixed: 2, Fixable: true}, report.ByRule[0])
	assert.Equal(t, "MD013", report.ByRule[1].RuleID)
	assert.Equal(t, []FileAnalysis{{Path: "doc.md", Issues: 1, Fixed: 2, Rules: []string{"MD013"}}}, report.ByFile)
}

func TestParseSortField(t *testing.T) {
	t.Parallel()

	for value, want := range map[string]SortField{"": SortByCount, "count": SortByCount, "alpha": SortByAlpha} {
		got, err := ParseSortField(value)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortField("severity")
	require.Error(t, err)
}
