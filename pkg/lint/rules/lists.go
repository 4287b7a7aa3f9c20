package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// maxOrderedNumber is the largest ordered list number a fixer writes.
const maxOrderedNumber = 999_999_999

const maxMarkerSpaces = 8

// UnorderedListStyleRule checks that bullet markers are consistent.
type UnorderedListStyleRule struct {
	lint.BaseRule
}

// NewUnorderedListStyleRule creates a new ul-style rule.
func NewUnorderedListStyleRule() *UnorderedListStyleRule {
	return &UnorderedListStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD004",
			"ul-style",
			"Unordered list style",
			[]string{"bullet", "ul"},
		),
	}
}

// Validate reports bullets whose marker differs from the expected one.
func (r *UnorderedListStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, item mdlines.ListItem, want byte) {
		out = append(out, lint.NewViolation(idx+1,
			fmt.Sprintf("Expected: %s; Actual: %s", markerName(want), markerName(item.Marker[0])),
			item.Indent, item.Indent+1))
	})
	return out
}

// Fix swaps the marker character. Empty items and items that would turn
// into a thematic break are left alone.
func (r *UnorderedListStyleRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	r.scan(rc, func(idx int, item mdlines.ListItem, want byte) {
		if item.Content == "" {
			return
		}
		line := out[idx]
		fixed := line[:item.Indent] + string(want) + line[item.Indent+1:]
		if !mdlines.IsThematicBreak(fixed) {
			out[idx] = fixed
		}
	})
	return out
}

func (r *UnorderedListStyleRule) scan(rc *lint.RuleContext, report func(idx int, item mdlines.ListItem, want byte)) {
	style := rc.OptionString("style", styleConsistent)
	lines := rc.Lines
	layout := rc.Layout()

	var (
		first    byte
		stack    []int
		byDepth  = make(map[int]byte)
		afterGap bool
	)

	for idx, line := range lines {
		if !layout.IsProse(idx) {
			continue
		}
		if mdlines.IsBlank(line) {
			afterGap = true
			continue
		}

		item, ok := listItemAt(lines, layout, idx)
		if !ok {
			if afterGap && mdlines.LeadingSpaces(line) == 0 {
				stack = stack[:0]
			}
			afterGap = false
			continue
		}
		afterGap = false

		depth := listDepth(&stack, item.Indent)
		if item.Ordered {
			continue
		}

		marker := item.Marker[0]
		if first == 0 {
			first = marker
		}

		var want byte
		switch style {
		case "asterisk":
			want = '*'
		case "dash":
			want = '-'
		case "plus":
			want = '+'
		case "sublist":
			want = sublistMarker(byDepth, depth, marker)
		default:
			want = first
		}

		if marker != want {
			report(idx, item, want)
		}
	}
}

// sublistMarker returns the marker expected at depth: the first one seen at
// that depth, chosen to differ from the parent level's marker.
func sublistMarker(byDepth map[int]byte, depth int, observed byte) byte {
	if want, ok := byDepth[depth]; ok {
		return want
	}

	want := observed
	if parent, ok := byDepth[depth-1]; ok && parent == want {
		for _, candidate := range []byte{'*', '+', '-'} {
			if candidate != parent {
				want = candidate
				break
			}
		}
	}
	byDepth[depth] = want
	return want
}

// listDepth returns the nesting depth of an item at indent, updating the
// stack of open item indents.
func listDepth(stack *[]int, indent int) int {
	for len(*stack) > 0 && (*stack)[len(*stack)-1] > indent {
		*stack = (*stack)[:len(*stack)-1]
	}
	if n := len(*stack); n > 0 && (*stack)[n-1] == indent {
		return n - 1
	}
	*stack = append(*stack, indent)
	return len(*stack) - 1
}

func markerName(marker byte) string {
	switch marker {
	case '*':
		return "asterisk"
	case '+':
		return "plus"
	default:
		return "dash"
	}
}

// OrderedListIncrementRule checks ordered list item numbering.
type OrderedListIncrementRule struct {
	lint.BaseRule
}

// NewOrderedListIncrementRule creates a new ol-prefix rule.
func NewOrderedListIncrementRule() *OrderedListIncrementRule {
	return &OrderedListIncrementRule{
		BaseRule: lint.NewBaseRule(
			"MD029",
			"ol-prefix",
			"Ordered list item prefix",
			[]string{"ol"},
		),
	}
}

// orderedEntry is one item of an ordered list.
type orderedEntry struct {
	idx  int
	item mdlines.ListItem
}

// orderedList is a run of ordered items sharing indent and delimiter.
type orderedList struct {
	indent  int
	delim   byte
	entries []orderedEntry
}

// Validate reports items whose number does not follow the list's style.
func (r *OrderedListIncrementRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(e orderedEntry, want int, pattern string) {
		out = append(out, lint.NewViolation(e.idx+1,
			fmt.Sprintf("Expected: %d; Actual: %d; Style: %s", want, e.item.Number, pattern),
			e.item.Indent, e.item.Indent+len(e.item.Marker)))
	})
	return out
}

// Fix renumbers the reported items.
func (r *OrderedListIncrementRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	r.scan(rc, func(e orderedEntry, want int, _ string) {
		if want > maxOrderedNumber {
			return
		}
		line := out[e.idx]
		digitsEnd := e.item.Indent + len(e.item.Marker) - 1
		out[e.idx] = line[:e.item.Indent] + strconv.Itoa(want) + line[digitsEnd:]
	})
	return out
}

func (r *OrderedListIncrementRule) scan(rc *lint.RuleContext, report func(orderedEntry, int, string)) {
	style := rc.OptionString("style", "one_or_ordered")
	for _, list := range orderedLists(rc.Lines, rc.Layout()) {
		checkOrderedList(list, style, report)
	}
}

func checkOrderedList(list *orderedList, style string, report func(orderedEntry, int, string)) {
	first := list.entries[0].item.Number

	expect := func(int) int { return 1 }
	pattern := "1/1/1"

	switch style {
	case "one":
	case "zero":
		expect = func(int) int { return 0 }
		pattern = "0/0/0"
	case "ordered":
		expect = func(pos int) int { return first + pos }
		pattern = "1/2/3"
	default:
		if len(list.entries) > 1 && list.entries[1].item.Number == first {
			expect = func(int) int { return first }
			pattern = fmt.Sprintf("%d/%d/%d", first, first, first)
		} else {
			expect = func(pos int) int { return first + pos }
			pattern = "1/2/3"
		}
	}

	for pos, e := range list.entries {
		if want := expect(pos); e.item.Number != want {
			report(e, want, pattern)
		}
	}
}

// orderedLists groups the ordered items of a document into lists. A list
// continues across blank lines, nested content, and lazy paragraph
// continuation lines; it ends at a line indented no deeper than its markers
// that is not one of its items.
func orderedLists(lines []string, layout *mdlines.Layout) []*orderedList {
	var (
		lists []*orderedList
		open  []*orderedList
	)

	closeFrom := func(indent int) {
		for len(open) > 0 && open[len(open)-1].indent >= indent {
			open = open[:len(open)-1]
		}
	}

	for idx := layout.ContentStart(); idx < len(lines); idx++ {
		line := lines[idx]
		if mdlines.IsBlank(line) {
			continue
		}

		item, ok := listItemAt(lines, layout, idx)
		if ok && item.Ordered {
			for len(open) > 0 && open[len(open)-1].indent > item.Indent {
				open = open[:len(open)-1]
			}
			if n := len(open); n > 0 && open[n-1].indent == item.Indent {
				if open[n-1].delim == item.Delimiter() {
					open[n-1].entries = append(open[n-1].entries, orderedEntry{idx: idx, item: item})
					continue
				}
				open = open[:n-1]
			}
			list := &orderedList{indent: item.Indent, delim: item.Delimiter()}
			list.entries = append(list.entries, orderedEntry{idx: idx, item: item})
			lists = append(lists, list)
			open = append(open, list)
			continue
		}

		if !ok && layout.IsProse(idx) && lazyContinuation(lines, layout, idx) {
			continue
		}
		closeFrom(mdlines.LeadingSpaces(line))
	}

	return lists
}

// lazyContinuation reports whether a prose line continues the paragraph on
// the line above it.
func lazyContinuation(lines []string, layout *mdlines.Layout, idx int) bool {
	if idx == 0 || !layout.IsProse(idx-1) || mdlines.IsBlank(lines[idx-1]) {
		return false
	}
	return !startsBlock(lines[idx])
}

// startsBlock reports whether line opens a block that interrupts a paragraph.
func startsBlock(line string) bool {
	if _, ok := mdlines.ParseATX(line); ok {
		return true
	}
	return mdlines.IsThematicBreak(line) || mdlines.IsFence(line) || mdlines.IsBlockquote(line)
}

// ListMarkerSpaceRule checks the spacing after list markers.
type ListMarkerSpaceRule struct {
	lint.BaseRule
}

// NewListMarkerSpaceRule creates a new list-marker-space rule.
func NewListMarkerSpaceRule() *ListMarkerSpaceRule {
	return &ListMarkerSpaceRule{
		BaseRule: lint.NewBaseRule(
			"MD030",
			"list-marker-space",
			"Spaces after list markers",
			[]string{"ol", "ul", "whitespace"},
		),
	}
}

// Validate reports items whose marker is followed by the wrong number of spaces.
func (r *ListMarkerSpaceRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, item mdlines.ListItem, want int) {
		start := item.Indent + len(item.Marker)
		out = append(out, lint.NewViolation(idx+1,
			fmt.Sprintf("Expected: %d; Actual: %d", want, item.Spacing), start, start+item.Spacing))
	})
	return out
}

// Fix sets the spacing to the expected width.
func (r *ListMarkerSpaceRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	r.scan(rc, func(idx int, item mdlines.ListItem, want int) {
		line := out[idx]
		out[idx] = line[:item.Indent+len(item.Marker)] + strings.Repeat(" ", want) + item.Content
	})
	return out
}

func (r *ListMarkerSpaceRule) scan(rc *lint.RuleContext, report func(int, mdlines.ListItem, int)) {
	ulSingle := clamp(rc.OptionInt("ul_single", 1), 1, maxMarkerSpaces)
	olSingle := clamp(rc.OptionInt("ol_single", 1), 1, maxMarkerSpaces)
	layout := rc.Layout()

	for idx := range rc.Lines {
		item, ok := listItemAt(rc.Lines, layout, idx)
		if !ok || item.Content == "" {
			continue
		}

		want := ulSingle
		if item.Ordered {
			want = olSingle
		}
		if item.Spacing != want {
			report(idx, item, want)
		}
	}
}

// BlanksAroundListsRule checks that lists are surrounded by blank lines.
type BlanksAroundListsRule struct {
	lint.BaseRule
}

// NewBlanksAroundListsRule creates a new blanks-around-lists rule.
func NewBlanksAroundListsRule() *BlanksAroundListsRule {
	return &BlanksAroundListsRule{
		BaseRule: lint.NewBaseRule(
			"MD032",
			"blanks-around-lists",
			"Lists should be surrounded by blank lines",
			[]string{"bullet", "ul", "ol", "blank_lines"},
		),
	}
}

// Validate reports lists that directly follow or precede other content.
func (r *BlanksAroundListsRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, above bool) {
		where := "Below"
		if above {
			where = "Above"
		}
		out = append(out, lint.NewLineViolation(idx+1, "Expected: 1; Actual: 0; "+where))
	})
	return out
}

// Fix inserts the missing blank lines.
func (r *BlanksAroundListsRule) Fix(rc *lint.RuleContext) []string {
	plan := newBlankPlan()
	r.scan(rc, func(idx int, above bool) {
		if above {
			plan.addBefore(idx, 1)
		} else {
			plan.addAfter(idx, 1)
		}
	})
	return plan.apply(rc.Lines)
}

func (r *BlanksAroundListsRule) scan(rc *lint.RuleContext, report func(idx int, above bool)) {
	lines := rc.Lines
	layout := rc.Layout()
	n := contentLen(lines)

	for idx := 0; idx < n; idx++ {
		if !startsList(lines, layout, idx) {
			continue
		}

		end := idx
		for end+1 < n && continuesList(lines, layout, end+1) {
			end++
		}

		if needsBlankBefore(lines, layout, idx) {
			report(idx, true)
		}
		if needsBlankAfter(lines, end) {
			report(end, false)
		}

		idx = end
	}
}

// startsList reports whether a list item on line idx starts a list rather
// than continuing a paragraph. Only bullets and items numbered 1 with content
// can interrupt a paragraph.
func startsList(lines []string, layout *mdlines.Layout, idx int) bool {
	item, ok := listItemAt(lines, layout, idx)
	if !ok {
		return false
	}
	if idx == 0 || !layout.IsProse(idx-1) || mdlines.IsBlank(lines[idx-1]) || startsBlock(lines[idx-1]) {
		return true
	}
	return item.Content != "" && (!item.Ordered || item.Number == 1)
}

func continuesList(lines []string, layout *mdlines.Layout, idx int) bool {
	if !layout.IsProse(idx) || mdlines.IsBlank(lines[idx]) {
		return false
	}
	if _, ok := listItemAt(lines, layout, idx); ok {
		return true
	}
	return !startsBlock(lines[idx]) && mdlines.SetextLevel(lines[idx]) == 0
}
