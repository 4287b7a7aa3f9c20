package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdfix/pkg/lint"
)

const (
	contextIndent   = "      "
	ellipsis        = "…"
	minContextWidth = 20
)

// FileHeader renders a file name with its issue count.
func (s *Styles) FileHeader(path string, issues int) string {
	noun := "issues"
	if issues == 1 {
		noun = "issue"
	}
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d %s)", issues, noun))
}

// Violation renders one violation as "  line:col  RULE/name  details".
// Columns are 1-based; whole-line violations show column 1.
func (s *Styles) Violation(v lint.Violation) string {
	column := 1
	if v.Range != nil {
		column = v.Range.Start + 1
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(s.Location.Render(fmt.Sprintf("%d:%d", v.LineNumber, column)))
	b.WriteString("  ")
	b.WriteString(s.RuleID.Render(v.RuleID + "/" + v.RuleName))
	if v.Details != "" {
		b.WriteString("  ")
		b.WriteString(s.Message.Render(v.Details))
	}
	b.WriteByte('\n')
	return b.String()
}

// SourceContext renders the offending source line with a caret under the
// violation's start, clipped to width. Long lines are cut around the caret.
func (s *Styles) SourceContext(line string, v lint.Violation, width int) string {
	if line == "" {
		return ""
	}

	caret := 0
	if v.Range != nil {
		caret = min(max(v.Range.Start, 0), len(line))
	}

	avail := max(width-len(contextIndent), minContextWidth)
	if lipgloss.Width(line) > avail {
		if cut := caret - avail/2; cut > 0 {
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			line = ellipsis + line[cut:]
			caret += len(ellipsis) - cut
		}
		line = truncate(line, avail)
	}

	var b strings.Builder
	b.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")
	if v.Range != nil {
		pad := lipgloss.Width(line[:min(caret, len(line))])
		b.WriteString(contextIndent + strings.Repeat(" ", pad) + s.Caret.Render("^") + "\n")
	}
	return b.String()
}

func truncate(line string, width int) string {
	if lipgloss.Width(line) <= width {
		return line
	}

	used := 0
	for idx, r := range line {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			return line[:idx] + ellipsis
		}
		used += w
	}
	return line
}
