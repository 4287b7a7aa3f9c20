package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdfix/internal/ui/pretty"
	"github.com/yaklabco/mdfix/pkg/analysis"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// SummaryReporter writes issue counts per rule and per file instead of
// individual violations.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryReporter creates a SummaryReporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	report := analysis.Analyze(result, analysis.Options{SortBy: r.opts.SortBy, Registry: r.opts.Registry})

	if len(report.ByRule) > 0 {
		rows := make([][]string, 0, len(report.ByRule))
		for _, rule := range report.ByRule {
			fixable := ""
			if rule.Fixable {
				fixable = "fix"
			}
			rows = append(rows, []string{
				rule.RuleID, rule.RuleName, strconv.Itoa(rule.Issues), strconv.Itoa(rule.Fixed),
				strconv.Itoa(len(rule.Files)), fixable,
			})
		}
		r.table(bw, []string{"RULE", "NAME", "ISSUES", "FIXED", "FILES", ""}, rows)
		fmt.Fprintln(bw)
	}

	if len(report.ByFile) > 0 {
		rows := make([][]string, 0, len(report.ByFile))
		for _, file := range report.ByFile {
			rows = append(rows, []string{
				file.Path, strconv.Itoa(file.Issues), strconv.Itoa(file.Fixed), strings.Join(file.Rules, ", "),
			})
		}
		r.table(bw, []string{"FILE", "ISSUES", "FIXED", "RULES"}, rows)
		fmt.Fprintln(bw)
	}

	if r.opts.ShowSummary && result != nil {
		if r.opts.Fix {
			fmt.Fprint(bw, r.styles.FixSummary(result.Stats, r.opts.DryRun))
		} else {
			fmt.Fprint(bw, r.styles.LintSummary(result.Stats))
		}
	}

	return report.Totals.Issues, nil
}

// table writes left-aligned columns separated by two spaces.
func (r *SummaryReporter) table(bw *bufio.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = lipgloss.Width(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ")
	}

	fmt.Fprintln(bw, r.styles.Title.Render(line(header)))
	for _, row := range rows {
		fmt.Fprintln(bw, line(row))
	}
}
