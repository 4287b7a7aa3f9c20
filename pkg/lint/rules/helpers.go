package rules

import (
	"slices"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// maxInsertedBlankLines caps the blank lines a fixer inserts at one position,
// whatever the configured count.
const maxInsertedBlankLines = 10

// contentLen returns the number of real lines in a document. The empty
// element produced by a trailing newline is not a line.
func contentLen(lines []string) int {
	if n := len(lines); n > 0 && lines[n-1] == "" {
		return n - 1
	}
	return len(lines)
}

func clamp(value, lo, hi int) int {
	return min(max(value, lo), hi)
}

// prevNonBlank returns the index of the closest non-blank line before idx, or -1.
func prevNonBlank(lines []string, idx int) int {
	for idx--; idx >= 0; idx-- {
		if !mdlines.IsBlank(lines[idx]) {
			return idx
		}
	}
	return -1
}

// listItemAt parses a list item on a prose line. A lone "-" directly under a
// paragraph line is a setext underline, not an empty item.
func listItemAt(lines []string, layout *mdlines.Layout, idx int) (mdlines.ListItem, bool) {
	if !layout.IsProse(idx) {
		return mdlines.ListItem{}, false
	}

	item, ok := mdlines.ParseListItem(lines[idx])
	if !ok {
		return mdlines.ListItem{}, false
	}

	if item.Content == "" && mdlines.SetextLevel(lines[idx]) > 0 &&
		idx > 0 && layout.IsProse(idx-1) && !mdlines.IsBlank(lines[idx-1]) {
		return mdlines.ListItem{}, false
	}

	return item, true
}

// edit replaces line[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

// applyEdits applies non-overlapping edits to line. Edits that overlap an
// earlier one are dropped.
func applyEdits(line string, edits []edit) string {
	if len(edits) == 0 {
		return line
	}

	slices.SortStableFunc(edits, func(a, b edit) int { return a.start - b.start })

	var sb strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.start < cursor || e.end > len(line) {
			continue
		}
		sb.WriteString(line[cursor:e.start])
		sb.WriteString(e.text)
		cursor = e.end
	}
	sb.WriteString(line[cursor:])

	return sb.String()
}

// mapProse returns a copy of the document with fn applied to every prose line.
func mapProse(rc *lint.RuleContext, fn func(idx int, line string) string) []string {
	out := rc.CopyLines()
	layout := rc.Layout()
	for idx, line := range out {
		if layout.IsProse(idx) {
			out[idx] = fn(idx, line)
		}
	}
	return out
}

// blankPlan records blank lines to insert around line indexes.
type blankPlan struct {
	before map[int]int
	after  map[int]int
}

func newBlankPlan() *blankPlan {
	return &blankPlan{before: make(map[int]int), after: make(map[int]int)}
}

func (p *blankPlan) addBefore(idx, count int) {
	if count > 0 {
		p.before[idx] = max(p.before[idx], min(count, maxInsertedBlankLines))
	}
}

func (p *blankPlan) addAfter(idx, count int) {
	if count > 0 {
		p.after[idx] = max(p.after[idx], min(count, maxInsertedBlankLines))
	}
}

// apply returns lines with the planned blank lines inserted. A blank line
// planned after one line and before the next is inserted once.
func (p *blankPlan) apply(lines []string) []string {
	if len(p.before) == 0 && len(p.after) == 0 {
		return slices.Clone(lines)
	}

	out := make([]string, 0, len(lines)+len(p.before)+len(p.after))
	pending := 0
	for idx, line := range lines {
		for range max(pending, p.before[idx]) {
			out = append(out, "")
		}
		out = append(out, line)
		pending = p.after[idx]
	}
	for range pending {
		out = append(out, "")
	}

	return out
}

// blanksAbove counts consecutive blank lines directly above idx.
func blanksAbove(lines []string, idx int) int {
	count := 0
	for i := idx - 1; i >= 0 && mdlines.IsBlank(lines[i]); i-- {
		count++
	}
	return count
}

// blanksBelow counts consecutive blank lines directly below idx, stopping at end.
func blanksBelow(lines []string, idx, end int) int {
	count := 0
	for i := idx + 1; i < end && mdlines.IsBlank(lines[i]); i++ {
		count++
	}
	return count
}

// needsBlankBefore reports whether a block starting at idx lacks the blank
// line that should separate it from preceding content.
func needsBlankBefore(lines []string, layout *mdlines.Layout, idx int) bool {
	return idx > layout.ContentStart() && !mdlines.IsBlank(lines[idx-1])
}

// needsBlankAfter reports whether a block ending at idx lacks the blank line
// that should separate it from following content.
func needsBlankAfter(lines []string, idx int) bool {
	return idx+1 < contentLen(lines) && !mdlines.IsBlank(lines[idx+1])
}
