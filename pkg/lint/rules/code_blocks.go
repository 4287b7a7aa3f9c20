package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdfix/pkg/langdetect"
	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

// dollarPromptPattern matches a shell prompt at the start of a line.
var dollarPromptPattern = regexp.MustCompile(`^(\s*)\$\s+`)

// blockContent returns the index range of the lines between a fence's
// delimiters. An unterminated fence runs to the end of the document.
func blockContent(lines []string, block mdlines.FencedBlock) (start, end int) {
	end = block.Close
	if end < 0 {
		end = contentLen(lines)
	}
	return block.Open + 1, max(end, block.Open+1)
}

// CommandsShowOutputRule checks for "$" prompts in blocks that show no output.
type CommandsShowOutputRule struct {
	lint.BaseRule
}

// NewCommandsShowOutputRule creates a new commands-show-output rule.
func NewCommandsShowOutputRule() *CommandsShowOutputRule {
	return &CommandsShowOutputRule{
		BaseRule: lint.NewBaseRule(
			"MD014",
			"commands-show-output",
			"Dollar signs used before commands without showing output",
			[]string{"code"},
		),
	}
}

// Validate reports every line of a fenced block in which all non-blank lines
// start with a "$" prompt.
func (r *CommandsShowOutputRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc.Lines, func(idx int) {
		loc := dollarPromptPattern.FindStringSubmatchIndex(rc.Lines[idx])
		out = append(out, lint.NewViolation(idx+1, "", loc[3], loc[3]+1))
	})
	return out
}

// Fix removes the prompts.
func (r *CommandsShowOutputRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	r.scan(rc.Lines, func(idx int) {
		line := out[idx]
		for {
			loc := dollarPromptPattern.FindStringSubmatchIndex(line)
			if loc == nil {
				break
			}
			line = line[:loc[3]] + line[loc[1]:]
		}
		out[idx] = line
	})
	return out
}

func (r *CommandsShowOutputRule) scan(lines []string, report func(idx int)) {
	for _, block := range mdlines.FencedBlocks(lines) {
		start, end := blockContent(lines, block)

		var prompts []int
		allPrompts := true
		for idx := start; idx < end; idx++ {
			if mdlines.IsBlank(lines[idx]) {
				continue
			}
			if !dollarPromptPattern.MatchString(lines[idx]) {
				allPrompts = false
				break
			}
			prompts = append(prompts, idx)
		}

		if !allPrompts {
			continue
		}
		for _, idx := range prompts {
			report(idx)
		}
	}
}

// BlanksAroundFencesRule checks that fenced code blocks are surrounded by blank lines.
type BlanksAroundFencesRule struct {
	lint.BaseRule
}

// NewBlanksAroundFencesRule creates a new blanks-around-fences rule.
func NewBlanksAroundFencesRule() *BlanksAroundFencesRule {
	return &BlanksAroundFencesRule{
		BaseRule: lint.NewBaseRule(
			"MD031",
			"blanks-around-fences",
			"Fenced code blocks should be surrounded by blank lines",
			[]string{"code", "blank_lines"},
		),
	}
}

// Validate reports fences directly adjacent to other content. With
// list_items set to false, indented fences are not checked.
func (r *BlanksAroundFencesRule) Validate(rc *lint.RuleContext) []lint.Violation {
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
func (r *BlanksAroundFencesRule) Fix(rc *lint.RuleContext) []string {
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

func (r *BlanksAroundFencesRule) scan(rc *lint.RuleContext, report func(idx int, above bool)) {
	listItems := rc.OptionBool("list_items", true)
	lines := rc.Lines
	layout := rc.Layout()

	for _, block := range mdlines.FencedBlocks(lines) {
		if layout.InFrontMatter(block.Open) {
			continue
		}
		if !listItems && mdlines.LeadingSpaces(lines[block.Open]) > 0 {
			continue
		}
		if needsBlankBefore(lines, layout, block.Open) {
			report(block.Open, true)
		}
		if block.Close >= 0 && needsBlankAfter(lines, block.Close) {
			report(block.Close, false)
		}
	}
}

// NoSpaceInCodeRule checks for spaces inside code span delimiters.
type NoSpaceInCodeRule struct {
	lint.BaseRule
}

// NewNoSpaceInCodeRule creates a new no-space-in-code rule.
func NewNoSpaceInCodeRule() *NoSpaceInCodeRule {
	return &NoSpaceInCodeRule{
		BaseRule: lint.NewBaseRule(
			"MD038",
			"no-space-in-code",
			"Spaces inside code span elements",
			[]string{"whitespace", "code"},
		),
	}
}

// Validate reports code spans with padding inside the backticks. A single
// space on both sides is allowed when the content starts or ends with a backtick.
func (r *NoSpaceInCodeRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		for _, e := range paddedCodeSpans(line) {
			out = append(out, lint.NewViolation(idx+1, "", e.start, e.end))
		}
	}
	return out
}

// Fix trims the padding.
func (r *NoSpaceInCodeRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		return applyEdits(line, paddedCodeSpans(line))
	})
}

// paddedCodeSpans returns an edit replacing each badly padded code span with
// its trimmed form.
func paddedCodeSpans(line string) []edit {
	var edits []edit
	for _, span := range mdlines.CodeSpans(line) {
		text := line[span.Start:span.End]
		ticks := leadingBackticks(text)
		if 2*ticks >= len(text) {
			continue
		}

		inner := text[ticks : len(text)-ticks]
		trimmed := strings.TrimSpace(inner)
		if trimmed == "" || trimmed == inner {
			continue
		}

		fence := text[:ticks]
		fixed := fence + trimmed + fence
		if strings.HasPrefix(trimmed, "`") || strings.HasSuffix(trimmed, "`") {
			fixed = fence + " " + trimmed + " " + fence
		}
		if fixed != text {
			edits = append(edits, edit{start: span.Start, end: span.End, text: fixed})
		}
	}
	return edits
}

func leadingBackticks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// CodeBlockLanguageRule checks that fenced code blocks name a language.
type CodeBlockLanguageRule struct {
	lint.BaseRule
}

// NewCodeBlockLanguageRule creates a new fenced-code-language rule.
func NewCodeBlockLanguageRule() *CodeBlockLanguageRule {
	return &CodeBlockLanguageRule{
		BaseRule: lint.NewBaseRule(
			"MD040",
			"fenced-code-language",
			"Fenced code blocks should have a language specified",
			[]string{"code", "language"},
		),
	}
}

// Validate reports fences without a language and, when allowed_languages is
// set, fences whose language is not in it.
func (r *CodeBlockLanguageRule) Validate(rc *lint.RuleContext) []lint.Violation {
	allowed := rc.OptionStringSlice("allowed_languages", nil)
	lines := rc.Lines
	layout := rc.Layout()

	var out []lint.Violation
	for _, block := range mdlines.FencedBlocks(lines) {
		if layout.InFrontMatter(block.Open) {
			continue
		}

		lang := fenceLanguage(lines[block.Open])
		switch {
		case lang == "":
			out = append(out, lint.NewLineViolation(block.Open+1, ""))
		case len(allowed) > 0 && !slices.Contains(allowed, lang):
			out = append(out, lint.NewLineViolation(block.Open+1, fmt.Sprintf("%q is not allowed", lang)))
		}
	}
	return out
}

// Fix adds a language to fences that have none, inferred from the block
// content. Blocks whose language cannot be inferred, or is not allowed, get
// default_language.
func (r *CodeBlockLanguageRule) Fix(rc *lint.RuleContext) []string {
	allowed := rc.OptionStringSlice("allowed_languages", nil)
	fallback := strings.TrimSpace(rc.OptionString("default_language", "text"))
	layout := rc.Layout()

	out := rc.CopyLines()
	for _, block := range mdlines.FencedBlocks(rc.Lines) {
		if layout.InFrontMatter(block.Open) || fenceLanguage(rc.Lines[block.Open]) != "" {
			continue
		}

		start, end := blockContent(rc.Lines, block)
		lang := langdetect.DetectLines(rc.Lines[start:end])
		if lang == langdetect.Unknown || (len(allowed) > 0 && !slices.Contains(allowed, lang)) {
			lang = fallback
		}
		if lang == "" || strings.ContainsAny(lang, "` \t") {
			continue
		}

		out[block.Open] = strings.TrimRight(out[block.Open], " \t") + lang
	}
	return out
}

// fenceLanguage returns the first word of a fence's info string.
func fenceLanguage(line string) string {
	fields := strings.Fields(mdlines.FenceInfo(line))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Code block style option values.
const (
	codeStyleFenced   = "fenced"
	codeStyleIndented = "indented"
)

// CodeBlockStyleRule checks that code blocks are either all fenced or all indented.
type CodeBlockStyleRule struct {
	lint.BaseRule
}

// NewCodeBlockStyleRule creates a new code-block-style rule.
func NewCodeBlockStyleRule() *CodeBlockStyleRule {
	return &CodeBlockStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD046",
			"code-block-style",
			"Code block style",
			[]string{"code"},
		),
	}
}

// Validate reports code blocks whose style differs from the configured or
// first observed style.
func (r *CodeBlockStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	want := rc.OptionString("style", styleConsistent)
	if want != codeStyleFenced && want != codeStyleIndented {
		want = ""
	}

	var out []lint.Violation
	for _, block := range codeBlockStarts(rc.Lines, rc.Layout()) {
		if want == "" {
			want = block.style
			continue
		}
		if block.style != want {
			out = append(out, lint.NewLineViolation(block.idx+1,
				fmt.Sprintf("Expected: %s; Actual: %s", want, block.style)))
		}
	}
	return out
}

type codeBlockStart struct {
	idx   int
	style string
}

// codeBlockStarts lists the first line of every fenced and indented code
// block in document order. Indented lines that continue a list item are not
// code blocks.
func codeBlockStarts(lines []string, layout *mdlines.Layout) []codeBlockStart {
	fenced := make([]bool, len(lines))
	var starts []codeBlockStart
	for _, block := range mdlines.FencedBlocks(lines) {
		if layout.InFrontMatter(block.Open) {
			continue
		}
		end := block.Close
		if end < 0 {
			end = len(lines) - 1
		}
		for idx := block.Open; idx <= end; idx++ {
			fenced[idx] = true
		}
		starts = append(starts, codeBlockStart{idx: block.Open, style: codeStyleFenced})
	}

	inList := false
	inIndented := false
	for idx := layout.ContentStart(); idx < len(lines); idx++ {
		line := lines[idx]
		switch {
		case fenced[idx]:
			inIndented = false
		case mdlines.IsBlank(line):
		case mdlines.IsIndentedCode(line):
			if !inIndented && !inList && (idx == layout.ContentStart() || mdlines.IsBlank(lines[idx-1])) {
				starts = append(starts, codeBlockStart{idx: idx, style: codeStyleIndented})
				inIndented = true
			}
		default:
			inIndented = false
			if _, ok := mdlines.ParseListItem(line); ok {
				inList = true
			} else if mdlines.LeadingSpaces(line) == 0 {
				inList = false
			}
		}
	}

	slices.SortFunc(starts, func(a, b codeBlockStart) int { return a.idx - b.idx })
	return starts
}

// Code fence style option values.
const (
	fenceStyleBacktick = "backtick"
	fenceStyleTilde    = "tilde"
)

// CodeFenceStyleRule checks that fences use one delimiter character.
type CodeFenceStyleRule struct {
	lint.BaseRule
}

// NewCodeFenceStyleRule creates a new code-fence-style rule.
func NewCodeFenceStyleRule() *CodeFenceStyleRule {
	return &CodeFenceStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD048",
			"code-fence-style",
			"Code fence style",
			[]string{"code"},
		),
	}
}

// Validate reports fences using the other delimiter character.
func (r *CodeFenceStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(block mdlines.FencedBlock, want byte) {
		out = append(out, lint.NewLineViolation(block.Open+1,
			fmt.Sprintf("Expected: %s; Actual: %s", fenceStyleName(want), fenceStyleName(block.Char))))
	})
	return out
}

// Fix rewrites both delimiters of a reported block. Blocks whose content or
// info string would collide with the new delimiter are left alone.
func (r *CodeFenceStyleRule) Fix(rc *lint.RuleContext) []string {
	lines := rc.Lines
	out := rc.CopyLines()

	r.scan(rc, func(block mdlines.FencedBlock, want byte) {
		if want == '`' && strings.Contains(mdlines.FenceInfo(lines[block.Open]), "`") {
			return
		}
		start, end := blockContent(lines, block)
		for idx := start; idx < end; idx++ {
			if mdlines.FenceChar(lines[idx]) == want {
				return
			}
		}

		out[block.Open] = swapFence(lines[block.Open], block.Char, want)
		if block.Close >= 0 {
			out[block.Close] = swapFence(lines[block.Close], block.Char, want)
		}
	})

	return out
}

func (r *CodeFenceStyleRule) scan(rc *lint.RuleContext, report func(mdlines.FencedBlock, byte)) {
	var want byte
	switch rc.OptionString("style", styleConsistent) {
	case fenceStyleBacktick:
		want = '`'
	case fenceStyleTilde:
		want = '~'
	}

	for _, block := range mdlines.FencedBlocks(rc.Lines) {
		if rc.Layout().InFrontMatter(block.Open) {
			continue
		}
		if want == 0 {
			want = block.Char
			continue
		}
		if block.Char != want {
			report(block, want)
		}
	}
}

// swapFence replaces the run of from characters that starts a delimiter line.
func swapFence(line string, from, to byte) string {
	start := len(line) - len(strings.TrimLeft(line, " \t"))
	end := start
	for end < len(line) && line[end] == from {
		end++
	}
	return line[:start] + strings.Repeat(string(to), end-start) + line[end:]
}

func fenceStyleName(char byte) string {
	if char == '~' {
		return fenceStyleTilde
	}
	return fenceStyleBacktick
}
