package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
	"github.com/yaklabco/mdfix/pkg/safematch"
)

const maxHeadingLevel = 6

// Heading style option values.
const (
	styleConsistent          = "consistent"
	styleATX                 = "atx"
	styleATXClosed           = "atx_closed"
	styleSetext              = "setext"
	styleSetextWithATX       = "setext_with_atx"
	styleSetextWithATXClosed = "setext_with_atx_closed"
)

// htmlEntityPattern matches a trailing character reference such as "&copy;".
var htmlEntityPattern = regexp.MustCompile(`&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);$`)

// HeadingIncrementRule checks that heading levels increment by one.
type HeadingIncrementRule struct {
	lint.BaseRule
}

// NewHeadingIncrementRule creates a new heading increment rule.
func NewHeadingIncrementRule() *HeadingIncrementRule {
	return &HeadingIncrementRule{
		BaseRule: lint.NewBaseRule(
			"MD001",
			"heading-increment",
			"Heading levels should only increment by one level at a time",
			[]string{"headings"},
		),
	}
}

// Validate reports headings more than one level deeper than the previous one.
func (r *HeadingIncrementRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation

	prev := 0
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if prev > 0 && h.Level > prev+1 {
			out = append(out, lint.NewLineViolation(h.Index+1,
				fmt.Sprintf("Expected: h%d; Actual: h%d", prev+1, h.Level)))
		}
		prev = h.Level
	}

	return out
}

// HeadingStyleRule checks that headings use one syntax.
type HeadingStyleRule struct {
	lint.BaseRule
}

// NewHeadingStyleRule creates a new heading style rule.
func NewHeadingStyleRule() *HeadingStyleRule {
	return &HeadingStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD003",
			"heading-style",
			"Heading style",
			[]string{"headings"},
		),
	}
}

// Validate reports headings whose style differs from the configured or first
// observed style.
func (r *HeadingStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(h mdlines.Heading, want mdlines.HeadingStyle) {
		out = append(out, lint.NewLineViolation(h.Index+1,
			fmt.Sprintf("Expected: %s; Actual: %s", want, h.Style)))
	})
	return out
}

// Fix rewrites headings into the expected style. Headings that cannot be
// written in that style without changing their text or meaning are left alone.
func (r *HeadingStyleRule) Fix(rc *lint.RuleContext) []string {
	lines := rc.Lines
	layout := rc.Layout()

	replace := make(map[int][]string)
	drop := make(map[int]bool)

	r.scan(rc, func(h mdlines.Heading, want mdlines.HeadingStyle) {
		indent := strings.Repeat(" ", h.Indent)

		switch want {
		case mdlines.StyleATX, mdlines.StyleATXClosed:
			if h.Style == mdlines.StyleSetext && strings.HasSuffix(h.Text, "#") {
				return
			}
			replace[h.Index] = []string{indent + atxHeading(h.Level, h.Text, want == mdlines.StyleATXClosed)}
			if h.Style == mdlines.StyleSetext {
				drop[h.Index+1] = true
			}
		case mdlines.StyleSetext:
			if !canBeSetext(lines, layout, h) {
				return
			}
			char := "="
			if h.Level == 2 {
				char = "-"
			}
			underline := strings.Repeat(char, max(utf8.RuneCountInString(h.Text), 3))
			replace[h.Index] = []string{indent + h.Text, underline}
		}
	})

	out := make([]string, 0, len(lines))
	for idx, line := range lines {
		switch {
		case drop[idx]:
		case replace[idx] != nil:
			out = append(out, replace[idx]...)
		default:
			out = append(out, line)
		}
	}

	return out
}

func (r *HeadingStyleRule) scan(rc *lint.RuleContext, report func(mdlines.Heading, mdlines.HeadingStyle)) {
	style := rc.OptionString("style", styleConsistent)

	var first mdlines.HeadingStyle
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if first == 0 {
			first = h.Style
		}

		want := expectedHeadingStyle(style, first, h.Level)
		if want != 0 && want != h.Style {
			report(h, want)
		}
	}
}

// expectedHeadingStyle returns the style a heading at level must use, or 0
// when any style is accepted.
func expectedHeadingStyle(style string, first mdlines.HeadingStyle, level int) mdlines.HeadingStyle {
	setextOr := func(deep mdlines.HeadingStyle) mdlines.HeadingStyle {
		if level <= 2 {
			return mdlines.StyleSetext
		}
		return deep
	}

	switch style {
	case styleATX:
		return mdlines.StyleATX
	case styleATXClosed:
		return mdlines.StyleATXClosed
	case styleSetext:
		return setextOr(0)
	case styleSetextWithATX:
		return setextOr(mdlines.StyleATX)
	case styleSetextWithATXClosed:
		return setextOr(mdlines.StyleATXClosed)
	}

	if first == mdlines.StyleSetext {
		return setextOr(0)
	}
	return first
}

// canBeSetext reports whether an ATX heading keeps its meaning when written
// as text plus underline.
func canBeSetext(lines []string, layout *mdlines.Layout, h mdlines.Heading) bool {
	if h.Level > 2 || h.Text == "" || h.Style == mdlines.StyleSetext {
		return false
	}
	if _, ok := mdlines.ParseListItem(h.Text); ok {
		return false
	}
	if mdlines.IsBlockquote(h.Text) || mdlines.IsThematicBreak(h.Text) ||
		mdlines.IsTableRow(h.Text) || mdlines.LooksLikeATX(h.Text) || mdlines.IsFence(h.Text) {
		return false
	}

	prev := h.Index - 1
	if prev < 0 || !layout.IsProse(prev) || mdlines.IsBlank(lines[prev]) || mdlines.IsThematicBreak(lines[prev]) {
		return true
	}
	_, ok := mdlines.ParseATX(lines[prev])
	return ok || mdlines.SetextLevel(lines[prev]) > 0
}

// atxHeading formats an ATX heading without indentation.
func atxHeading(level int, text string, closed bool) string {
	hashes := strings.Repeat("#", level)
	switch {
	case text == "" && closed:
		return hashes + " " + hashes
	case text == "":
		return hashes
	case closed:
		return hashes + " " + text + " " + hashes
	default:
		return hashes + " " + text
	}
}

// NoMissingSpaceATXRule checks for a missing space after the hashes of an ATX heading.
type NoMissingSpaceATXRule struct {
	lint.BaseRule
}

// NewNoMissingSpaceATXRule creates a new no-missing-space-atx rule.
func NewNoMissingSpaceATXRule() *NoMissingSpaceATXRule {
	return &NoMissingSpaceATXRule{
		BaseRule: lint.NewBaseRule(
			"MD018",
			"no-missing-space-atx",
			"No space after hash on atx style heading",
			[]string{"headings", "atx", "spaces"},
		),
	}
}

// Validate reports lines such as "#Heading".
func (r *NoMissingSpaceATXRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if rc.Layout().IsProse(idx) && missingATXSpace(line) {
			indent := mdlines.LeadingSpaces(line)
			out = append(out, lint.NewViolation(idx+1, "", indent, indent+leadingHashes(line[indent:])+1))
		}
	}
	return out
}

// Fix inserts the missing space.
func (r *NoMissingSpaceATXRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		if !missingATXSpace(line) {
			return line
		}
		split := mdlines.LeadingSpaces(line)
		split += leadingHashes(line[split:])
		return line[:split] + " " + line[split:]
	})
}

// missingATXSpace reports an unclosed "#Heading" line. Lines ending in '#'
// belong to the closed ATX rule.
func missingATXSpace(line string) bool {
	if !mdlines.LooksLikeATX(line) {
		return false
	}
	if _, ok := mdlines.ParseATX(line); ok {
		return false
	}
	return !strings.HasSuffix(strings.TrimRight(line, " \t"), "#")
}

func leadingHashes(s string) int {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	return n
}

func trailingHashes(s string) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '#' {
		n++
	}
	return n
}

// NoMultipleSpaceATXRule checks for multiple spaces after the hashes of an ATX heading.
type NoMultipleSpaceATXRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceATXRule creates a new no-multiple-space-atx rule.
func NewNoMultipleSpaceATXRule() *NoMultipleSpaceATXRule {
	return &NoMultipleSpaceATXRule{
		BaseRule: lint.NewBaseRule(
			"MD019",
			"no-multiple-space-atx",
			"Multiple spaces after hash on atx style heading",
			[]string{"headings", "atx", "spaces"},
		),
	}
}

// Validate reports ATX headings with more than one space after the hashes.
func (r *NoMultipleSpaceATXRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if h.Style != mdlines.StyleATX || h.Text == "" {
			continue
		}
		start := h.Indent + h.Level
		if spaces := openingSpaces(rc.Lines[h.Index], h); spaces > 1 {
			out = append(out, lint.NewViolation(h.Index+1, "", start, start+spaces))
		}
	}
	return out
}

// Fix collapses the spacing to one space.
func (r *NoMultipleSpaceATXRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if h.Style != mdlines.StyleATX || h.Text == "" {
			continue
		}
		line := out[h.Index]
		if spaces := openingSpaces(line, h); spaces > 1 {
			start := h.Indent + h.Level
			out[h.Index] = line[:start] + " " + line[start+spaces:]
		}
	}
	return out
}

// openingSpaces counts the whitespace between an ATX heading's hashes and its text.
func openingSpaces(line string, h mdlines.Heading) int {
	after := line[h.Indent+h.Level:]
	return len(after) - len(strings.TrimLeft(after, " \t"))
}

// closedATX is the raw layout of a line shaped like a closed ATX heading.
type closedATX struct {
	indent  int
	level   int
	body    string
	closing int
}

// parseClosedATX splits "#  text  ##" into its parts. Escaped closing hashes
// and lines without text do not qualify.
func parseClosedATX(line string) (closedATX, bool) {
	if !mdlines.LooksLikeATX(line) {
		return closedATX{}, false
	}

	indent := mdlines.LeadingSpaces(line)
	rest := strings.TrimRight(line[indent:], " \t")
	level := leadingHashes(rest)
	if level == len(rest) {
		return closedATX{}, false
	}

	closing := trailingHashes(rest)
	if closing == 0 {
		return closedATX{}, false
	}

	body := rest[level : len(rest)-closing]
	if strings.TrimSpace(body) == "" || strings.HasSuffix(body, `\`) {
		return closedATX{}, false
	}

	return closedATX{indent: indent, level: level, body: body, closing: closing}, true
}

func (c closedATX) format() string {
	return strings.Repeat(" ", c.indent) + strings.Repeat("#", c.level) + " " +
		strings.TrimSpace(c.body) + " " + strings.Repeat("#", c.closing)
}

func (c closedATX) spaces() (left, right int) {
	left = len(c.body) - len(strings.TrimLeft(c.body, " \t"))
	right = len(c.body) - len(strings.TrimRight(c.body, " \t"))
	return left, right
}

// missingSpace reports "#Heading#" and "## Heading##". A single trailing hash
// glued to the text, as in "# C#", is read as part of the text.
func (c closedATX) missingSpace() bool {
	left, right := c.spaces()
	return left == 0 || (right == 0 && c.closing >= 2)
}

// NoMissingSpaceClosedATXRule checks for missing spaces inside closed ATX headings.
type NoMissingSpaceClosedATXRule struct {
	lint.BaseRule
}

// NewNoMissingSpaceClosedATXRule creates a new no-missing-space-closed-atx rule.
func NewNoMissingSpaceClosedATXRule() *NoMissingSpaceClosedATXRule {
	return &NoMissingSpaceClosedATXRule{
		BaseRule: lint.NewBaseRule(
			"MD020",
			"no-missing-space-closed-atx",
			"No space inside hashes on closed atx style heading",
			[]string{"headings", "atx_closed", "spaces"},
		),
	}
}

// Validate reports closed ATX headings missing a space on either side of the text.
func (r *NoMissingSpaceClosedATXRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		if c, ok := parseClosedATX(line); ok && c.missingSpace() {
			out = append(out, lint.NewViolation(idx+1, "", c.indent, len(strings.TrimRight(line, " \t"))))
		}
	}
	return out
}

// Fix adds the missing spaces.
func (r *NoMissingSpaceClosedATXRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		if c, ok := parseClosedATX(line); ok && c.missingSpace() {
			return c.format()
		}
		return line
	})
}

// NoMultipleSpaceClosedATXRule checks for multiple spaces inside closed ATX headings.
type NoMultipleSpaceClosedATXRule struct {
	lint.BaseRule
}

// NewNoMultipleSpaceClosedATXRule creates a new no-multiple-space-closed-atx rule.
func NewNoMultipleSpaceClosedATXRule() *NoMultipleSpaceClosedATXRule {
	return &NoMultipleSpaceClosedATXRule{
		BaseRule: lint.NewBaseRule(
			"MD021",
			"no-multiple-space-closed-atx",
			"Multiple spaces inside hashes on closed atx style heading",
			[]string{"headings", "atx_closed", "spaces"},
		),
	}
}

// Validate reports closed ATX headings with extra spacing around the text.
func (r *NoMultipleSpaceClosedATXRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if c, ok := r.extraSpaced(rc.Lines[h.Index], h); ok {
			out = append(out, lint.NewViolation(h.Index+1, "", c.indent, len(strings.TrimRight(rc.Lines[h.Index], " \t"))))
		}
	}
	return out
}

// Fix collapses the spacing to one space on each side.
func (r *NoMultipleSpaceClosedATXRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if c, ok := r.extraSpaced(out[h.Index], h); ok {
			out[h.Index] = c.format()
		}
	}
	return out
}

func (r *NoMultipleSpaceClosedATXRule) extraSpaced(line string, h mdlines.Heading) (closedATX, bool) {
	if h.Style != mdlines.StyleATXClosed || h.Text == "" {
		return closedATX{}, false
	}
	c, ok := parseClosedATX(line)
	if !ok {
		return closedATX{}, false
	}
	left, right := c.spaces()
	return c, left > 1 || right > 1
}

// HeadingBlankLinesRule checks that headings are surrounded by blank lines.
type HeadingBlankLinesRule struct {
	lint.BaseRule
}

// NewHeadingBlankLinesRule creates a new blanks-around-headings rule.
func NewHeadingBlankLinesRule() *HeadingBlankLinesRule {
	return &HeadingBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD022",
			"blanks-around-headings",
			"Headings should be surrounded by blank lines",
			[]string{"headings", "blank_lines"},
		),
	}
}

// Validate reports headings with fewer blank lines above or below than
// lines_above and lines_below require. A negative requirement disables the check.
func (r *HeadingBlankLinesRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx, want, got int, where string, _ bool) {
		out = append(out, lint.NewLineViolation(idx+1,
			fmt.Sprintf("Expected: %d; Actual: %d; %s", want, got, where)))
	})
	return out
}

// Fix inserts the missing blank lines.
func (r *HeadingBlankLinesRule) Fix(rc *lint.RuleContext) []string {
	plan := newBlankPlan()
	r.scan(rc, func(idx, want, got int, _ string, above bool) {
		if above {
			plan.addBefore(idx, want-got)
		} else {
			plan.addAfter(idx, want-got)
		}
	})
	return plan.apply(rc.Lines)
}

func (r *HeadingBlankLinesRule) scan(rc *lint.RuleContext, report func(idx, want, got int, where string, above bool)) {
	linesAbove := rc.OptionInt("lines_above", 1)
	linesBelow := rc.OptionInt("lines_below", 1)
	lines := rc.Lines
	layout := rc.Layout()
	end := contentLen(lines)

	for _, h := range mdlines.Headings(lines, layout) {
		if linesAbove > 0 && prevNonBlank(lines, h.Index) >= layout.ContentStart() {
			if got := blanksAbove(lines, h.Index); got < linesAbove {
				report(h.Index, linesAbove, got, "Above", true)
			}
		}

		last := h.Index
		if h.Style == mdlines.StyleSetext {
			last++
		}
		if linesBelow > 0 {
			got := blanksBelow(lines, last, end)
			if last+got+1 < end && got < linesBelow {
				report(last, linesBelow, got, "Below", false)
			}
		}
	}
}

// HeadingStartLeftRule checks that headings start at the beginning of the line.
type HeadingStartLeftRule struct {
	lint.BaseRule
}

// NewHeadingStartLeftRule creates a new heading-start-left rule.
func NewHeadingStartLeftRule() *HeadingStartLeftRule {
	return &HeadingStartLeftRule{
		BaseRule: lint.NewBaseRule(
			"MD023",
			"heading-start-left",
			"Headings must start at the beginning of the line",
			[]string{"headings", "spaces"},
		),
	}
}

// Validate reports indented headings that are not nested in a list item.
func (r *HeadingStartLeftRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for _, h := range r.indented(rc) {
		out = append(out, lint.NewViolation(h.Index+1, "", 0, h.Indent))
	}
	return out
}

// Fix removes the indentation.
func (r *HeadingStartLeftRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	for _, h := range r.indented(rc) {
		out[h.Index] = out[h.Index][h.Indent:]
	}
	return out
}

func (r *HeadingStartLeftRule) indented(rc *lint.RuleContext) []mdlines.Heading {
	var found []mdlines.Heading
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if h.Indent == 0 {
			continue
		}
		if prev := prevNonBlank(rc.Lines, h.Index); prev >= 0 {
			if _, ok := listItemAt(rc.Lines, rc.Layout(), prev); ok {
				continue
			}
		}
		found = append(found, h)
	}
	return found
}

// NoDuplicateHeadingRule checks for headings with the same content.
type NoDuplicateHeadingRule struct {
	lint.BaseRule
}

// NewNoDuplicateHeadingRule creates a new no-duplicate-heading rule.
func NewNoDuplicateHeadingRule() *NoDuplicateHeadingRule {
	return &NoDuplicateHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD024",
			"no-duplicate-heading",
			"Multiple headings with the same content",
			[]string{"headings"},
		),
	}
}

// Validate reports repeated heading text. With siblings_only, only headings
// under the same parent are compared.
func (r *NoDuplicateHeadingRule) Validate(rc *lint.RuleContext) []lint.Violation {
	siblingsOnly := rc.OptionBool("siblings_only", false)

	seen := make(map[int]map[string]bool)
	var stack []mdlines.Heading

	var out []lint.Violation
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		parent := -1
		if siblingsOnly && len(stack) > 0 {
			parent = stack[len(stack)-1].Index
		}
		if seen[parent] == nil {
			seen[parent] = make(map[string]bool)
		}

		if seen[parent][h.Text] {
			out = append(out, lint.NewLineViolation(h.Index+1, fmt.Sprintf("Duplicate heading: %q", h.Text)))
		}
		seen[parent][h.Text] = true
		stack = append(stack, h)
	}

	return out
}

// SingleH1Rule checks that a document has at most one top-level heading.
type SingleH1Rule struct {
	lint.BaseRule
}

// NewSingleH1Rule creates a new single H1 rule.
func NewSingleH1Rule() *SingleH1Rule {
	return &SingleH1Rule{
		BaseRule: lint.NewBaseRule(
			"MD025",
			"single-h1",
			"Multiple top-level headings in the same document",
			[]string{"headings"},
		),
	}
}

// Aliases returns the legacy markdownlint name of the rule.
func (r *SingleH1Rule) Aliases() []string {
	return []string{"single-title"}
}

// Validate reports every heading at level when the front matter supplies a
// title, and otherwise every heading at level after the first.
func (r *SingleH1Rule) Validate(rc *lint.RuleContext) []lint.Violation {
	level := clamp(rc.OptionInt("level", 1), 1, maxHeadingLevel)
	recordTitleFallback(rc, r.ID())
	hasTitle := frontMatterTitle(rc, rc.Lines)

	var out []lint.Violation
	seen := hasTitle
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if h.Level != level {
			continue
		}
		if seen {
			out = append(out, lint.NewLineViolation(h.Index+1, fmt.Sprintf("Extra top-level heading: %q", h.Text)))
		}
		seen = true
	}

	return out
}

// Fix demotes the headings Validate reports by one level. Whether the front
// matter supplies a title is evaluated on the working document before each
// heading is considered.
func (r *SingleH1Rule) Fix(rc *lint.RuleContext) []string {
	level := clamp(rc.OptionInt("level", 1), 1, maxHeadingLevel)
	if level == maxHeadingLevel {
		return rc.CopyLines()
	}
	recordTitleFallback(rc, r.ID())

	out := rc.CopyLines()
	drop := make(map[int]bool)
	seenTop := false

	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if h.Level != level {
			continue
		}
		if !frontMatterTitle(rc, out) && !seenTop {
			seenTop = true
			continue
		}

		indent := strings.Repeat(" ", h.Indent)
		switch {
		case h.Style != mdlines.StyleSetext:
			out[h.Index] = indent + "#" + out[h.Index][h.Indent:]
		case h.Level == 1:
			out[h.Index+1] = strings.ReplaceAll(out[h.Index+1], "=", "-")
		default:
			out[h.Index] = indent + atxHeading(h.Level+1, h.Text, false)
			drop[h.Index+1] = true
		}
	}

	if len(drop) == 0 {
		return out
	}

	kept := out[:0]
	for idx, line := range out {
		if !drop[idx] {
			kept = append(kept, line)
		}
	}
	return kept
}

// frontMatterTitle reports whether the front matter of lines declares a title
// per the front_matter_title option.
func frontMatterTitle(rc *lint.RuleContext, lines []string) bool {
	pattern := rc.OptionString("front_matter_title", "")
	for _, line := range mdlines.FrontMatter(lines) {
		if safematch.HasFrontMatterTitle(line, pattern) {
			return true
		}
	}
	return false
}

// recordTitleFallback counts a front_matter_title pattern containing
// metacharacters, which is matched as a stripped literal instead.
func recordTitleFallback(rc *lint.RuleContext, ruleID string) {
	pattern := rc.OptionString("front_matter_title", "")
	if len(pattern) <= safematch.MaxPatternLength && safematch.HasPatternMetachars(pattern) &&
		mdlines.FrontMatterEnd(rc.Lines) >= 0 {
		rc.Telemetry.RecordFallback(ruleID)
	}
}

// NoTrailingPunctuationRule checks for trailing punctuation in headings.
type NoTrailingPunctuationRule struct {
	lint.BaseRule
}

// NewNoTrailingPunctuationRule creates a new no-trailing-punctuation rule.
func NewNoTrailingPunctuationRule() *NoTrailingPunctuationRule {
	return &NoTrailingPunctuationRule{
		BaseRule: lint.NewBaseRule(
			"MD026",
			"no-trailing-punctuation",
			"Trailing punctuation in heading",
			[]string{"headings"},
		),
	}
}

const defaultHeadingPunctuation = ".,;:!。，；：！"

// Validate reports headings whose text ends with a configured punctuation
// character. Character references such as "&copy;" are not punctuation.
func (r *NoTrailingPunctuationRule) Validate(rc *lint.RuleContext) []lint.Violation {
	punctuation := rc.OptionString("punctuation", defaultHeadingPunctuation)

	var out []lint.Violation
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if !trailingPunctuation(h.Text, punctuation) {
			continue
		}
		last, size := utf8.DecodeLastRuneInString(h.Text)
		line := rc.Lines[h.Index]
		col := strings.LastIndex(line, h.Text) + len(h.Text) - size
		out = append(out, lint.NewViolation(h.Index+1, fmt.Sprintf("Punctuation: '%c'", last), col, col+size))
	}
	return out
}

// Fix strips the trailing punctuation. Headings made only of punctuation are
// left alone.
func (r *NoTrailingPunctuationRule) Fix(rc *lint.RuleContext) []string {
	punctuation := rc.OptionString("punctuation", defaultHeadingPunctuation)

	out := rc.CopyLines()
	for _, h := range mdlines.Headings(rc.Lines, rc.Layout()) {
		if !trailingPunctuation(h.Text, punctuation) {
			continue
		}

		text := strings.TrimRightFunc(h.Text, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(punctuation, r)
		})
		if text == "" {
			continue
		}

		indent := strings.Repeat(" ", h.Indent)
		if h.Style == mdlines.StyleSetext {
			out[h.Index] = indent + text
			continue
		}

		line := strings.TrimRight(out[h.Index], " \t")
		heading := indent + strings.Repeat("#", h.Level) + " " + text
		if h.Style == mdlines.StyleATXClosed {
			heading += " " + strings.Repeat("#", trailingHashes(line))
		}
		out[h.Index] = heading
	}

	return out
}

func trailingPunctuation(text, punctuation string) bool {
	return safematch.EndsWithPunctuation(text, punctuation) && !htmlEntityPattern.MatchString(text)
}
