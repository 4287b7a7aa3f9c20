package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RuleRow is one line of the rule catalog.
type RuleRow struct {
	ID          string
	Name        string
	Fixable     bool
	Enabled     bool
	Description string
}

const (
	fixableMark  = "fix"
	disabledMark = "off"
	columnGap    = "  "
)

// RuleTable renders the rule catalog as aligned columns. Descriptions are
// clipped to width.
func (s *Styles) RuleTable(rows []RuleRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	idWidth, nameWidth := len("RULE"), len("NAME")
	for _, row := range rows {
		idWidth = max(idWidth, len(row.ID))
		nameWidth = max(nameWidth, len(row.Name))
	}
	flagWidth := len(fixableMark) + 1 + len(disabledMark)
	descWidth := max(width-idWidth-nameWidth-flagWidth-3*len(columnGap), minContextWidth)

	var b strings.Builder
	header := fmt.Sprintf("%-*s%s%-*s%s%-*s%s%s",
		idWidth, "RULE", columnGap, nameWidth, "NAME", columnGap, flagWidth, "", columnGap, "DESCRIPTION")
	b.WriteString(s.Title.Render(strings.TrimRight(header, " ")) + "\n")

	for _, row := range rows {
		flags := []string{pad("", len(fixableMark)), pad("", len(disabledMark))}
		if row.Fixable {
			flags[0] = s.Fixable.Render(fixableMark)
		}
		if !row.Enabled {
			flags[1] = s.Dim.Render(disabledMark)
		}

		b.WriteString(s.RuleID.Render(pad(row.ID, idWidth)))
		b.WriteString(columnGap)
		b.WriteString(pad(row.Name, nameWidth))
		b.WriteString(columnGap)
		b.WriteString(strings.Join(flags, " "))
		b.WriteString(columnGap)
		b.WriteString(s.Dim.Render(truncate(row.Description, descWidth)))
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}
