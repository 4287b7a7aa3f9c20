package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/pkg/fix"
	"github.com/yaklabco/mdfix/pkg/lint"
	_ "github.com/yaklabco/mdfix/pkg/lint/rules" // Register rules
	"github.com/yaklabco/mdfix/pkg/reporter"
	"github.com/yaklabco/mdfix/pkg/runner"
)

func violation(line int, id, name, details string, start, end int) lint.Violation {
	v := lint.NewViolation(line, details, start, end)
	v.RuleID, v.RuleName = id, name
	return v
}

func lintResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Display: "a.md", Lines: []string{"# A", ""}},
			{
				Display: "docs/b.md",
				Lines:   []string{"# B", "", "text "},
				Violations: []lint.Violation{
					violation(3, "MD009", "no-trailing-spaces", "Expected: 0 or 2; Actual: 1", 4, 5),
				},
			},
			{Display: "c.md", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3, FilesProcessed: 2, FilesErrored: 1,
			FilesWithIssues: 1, Issues: 1, IssuesBefore: 1,
			IssuesByRule: map[string]int{"MD009": 1},
		},
	}
}

func newReporter(t *testing.T, format reporter.Format, buf *bytes.Buffer) reporter.Reporter {
	t.Helper()
	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.Format = format
	opts.Color = "never"
	opts.Version = "1.2.3"
	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range reporter.Formats() {
		got, err := reporter.ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := reporter.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, reporter.FormatText, got)

	_, err = reporter.ParseFormat("xml")
	require.Error(t, err)

	_, err = reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), lintResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "docs/b.md (1 issue)\n" +
		"  3:5  MD009/no-trailing-spaces  Expected: 0 or 2; Actual: 1\n" +
		"      text \n" +
		"          ^\n" +
		"\n" +
		"c.md: error: permission denied\n" +
		"✗ Found 1 issue in 1 file of 2 files 1 file failed\n"
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No Markdown files found.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatJSON, &buf).Report(context.Background(), lintResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "mdfix", decoded["tool"])
	assert.Equal(t, "1.2.3", decoded["version"])

	files := decoded["files"].([]any)
	require.Len(t, files, 3)
	assert.Equal(t, []any{}, files[0].(map[string]any)["violations"])

	b := files[1].(map[string]any)
	v := b["violations"].([]any)[0].(map[string]any)
	assert.Equal(t, "MD009", v["ruleId"])
	assert.Equal(t, "no-trailing-spaces", v["ruleName"])
	assert.EqualValues(t, 3, v["lineNumber"])
	assert.Equal(t, map[string]any{"start": 4.0, "end": 5.0}, v["range"])
	assert.Equal(t, "permission denied", files[2].(map[string]any)["error"])

	summary := decoded["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["issues"])
	assert.Equal(t, map[string]any{"MD009": 1.0}, summary["byRule"])
}

func TestBuildJSON_Fix(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{{
		Display: "a.md",
		Written: true,
		Fix: &lint.FixResult{
			Before:         []lint.Violation{violation(1, "MD009", "no-trailing-spaces", "", 1, 2)},
			RulesApplied:   []string{"MD009"},
			EstimatedFixes: 1,
			Changed:        true,
		},
	}}}

	out := reporter.BuildJSON(result, "")
	require.NotNil(t, out.Files[0].Fix)
	assert.Equal(t, reporter.JSONFix{
		RulesApplied: []string{"MD009"}, IssuesBefore: 1, IssuesAfter: 0,
		EstimatedFixes: 1, Changed: true, Written: true,
	}, *out.Files[0].Fix)

	empty := reporter.BuildJSON(nil, "")
	assert.Empty(t, empty.Files)
	assert.NotNil(t, empty.Summary.ByRule)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		{Display: "a.md"},
		{Display: "b.md", Diff: fix.GenerateDiff("b.md", []string{"x ", ""}, []string{"x", ""})},
	}}

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatDiff, &buf).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "diff --git a/b.md b/b.md\n" +
		"--- a/b.md\n+++ b/b.md\n" +
		"@@ -1,2 +1,2 @@\n-x \n+x\n \n" +
		"\n" +
		"1 file changed, 1 insertion(+), 1 deletion(-)\n"
	assert.Equal(t, want, buf.String())
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatSARIF, &buf).Report(context.Background(), lintResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)

	run := out.Runs[0]
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "MD009", run.Tool.Driver.Rules[0].ID)
	assert.NotEmpty(t, run.Tool.Driver.Rules[0].ShortDescription.Text)
	assert.Equal(t, true, run.Tool.Driver.Rules[0].Properties["fixable"])

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "warning", res.Level)
	assert.True(t, strings.HasPrefix(res.Message.Text, "no-trailing-spaces: "))
	assert.Equal(t, "docs/b.md", res.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, reporter.SARIFRegion{StartLine: 3, StartColumn: 5, EndColumn: 6},
		res.Locations[0].PhysicalLocation.Region)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	issues, err := newReporter(t, reporter.FormatSummary, &buf).Report(context.Background(), lintResult())
	require.NoError(t, err)
	assert.Equal(t, 1, issues)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out,
		"RULE   NAME                ISSUES  FIXED  FILES\n"+
			"MD009  no-trailing-spaces  1       0      1      fix\n"+
			"\n"+
			"FILE       ISSUES  FIXED  RULES\n"+
			"docs/b.md  1       0      MD009\n"+
			"\n"), out)
	assert.Contains(t, out, "Found 1 issue")
}
