package rules

import (
	"regexp"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
)

var (
	// reversedLinkPattern matches "(target)[text]".
	reversedLinkPattern = regexp.MustCompile(`\(([^()\s][^()]*)\)\[([^\]\[^][^\]\[]*)\]`)

	// inlineLinkPattern matches "[text](target)" including images.
	inlineLinkPattern = regexp.MustCompile(`!?\[([^\]\[]*)\]\(([^()]*)\)`)

	// linkTextPattern captures the padding inside link text.
	linkTextPattern = regexp.MustCompile(`\[([ \t]*)[^\]\[\s](?:[^\]\[]*[^\]\[\s])?([ \t]*)\]\(`)

	// bareURLPattern matches http and https URLs.
	bareURLPattern = regexp.MustCompile("https?://[^\\s<>\\[\\]()\"'`]+")

	// emptyAltPattern matches images without alternate text.
	emptyAltPattern = regexp.MustCompile(`!\[\s*\][(\[]`)

	// referenceDefinitionPattern matches "[label]: target" definitions.
	referenceDefinitionPattern = regexp.MustCompile(`^ {0,3}\[[^\]]+\]:\s`)
)

// ReversedLinkRule detects reversed link syntax: (target)[text] instead of [text](target).
type ReversedLinkRule struct {
	lint.BaseRule
}

// NewReversedLinkRule creates a new reversed link rule.
func NewReversedLinkRule() *ReversedLinkRule {
	return &ReversedLinkRule{
		BaseRule: lint.NewBaseRule(
			"MD011",
			"no-reversed-links",
			"Reversed link syntax",
			[]string{"links"},
		),
	}
}

// Validate reports each reversed link.
func (r *ReversedLinkRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		for _, loc := range reversedLinks(line) {
			out = append(out, lint.NewViolation(idx+1, line[loc[0]:loc[1]], loc[0], loc[1]))
		}
	}
	return out
}

// Fix swaps the parts back into [text](target) order.
func (r *ReversedLinkRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		var edits []edit
		for _, loc := range reversedLinks(line) {
			target, text := line[loc[2]:loc[3]], line[loc[4]:loc[5]]
			edits = append(edits, edit{start: loc[0], end: loc[1], text: "[" + text + "](" + target + ")"})
		}
		return applyEdits(line, edits)
	})
}

// reversedLinks returns submatch offsets of reversed links outside code
// spans. Escaped parentheses and matches followed by '(' or '[' are skipped.
func reversedLinks(line string) [][]int {
	masked := mdlines.MaskCodeSpans(line)

	var found [][]int
	for _, loc := range reversedLinkPattern.FindAllStringSubmatchIndex(masked, -1) {
		if loc[0] > 0 && masked[loc[0]-1] == '\\' {
			continue
		}
		if loc[1] < len(masked) && (masked[loc[1]] == '(' || masked[loc[1]] == '[') {
			continue
		}
		found = append(found, loc)
	}
	return found
}

// NoBareURLsRule checks for URLs that are not wrapped as links.
type NoBareURLsRule struct {
	lint.BaseRule
}

// NewNoBareURLsRule creates a new no-bare-urls rule.
func NewNoBareURLsRule() *NoBareURLsRule {
	return &NoBareURLsRule{
		BaseRule: lint.NewBaseRule(
			"MD034",
			"no-bare-urls",
			"Bare URL used",
			[]string{"links", "url"},
		),
	}
}

// Validate reports bare URLs.
func (r *NoBareURLsRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		for _, span := range bareURLs(line) {
			out = append(out, lint.NewViolation(idx+1, line[span.Start:span.End], span.Start, span.End))
		}
	}
	return out
}

// Fix wraps each bare URL in angle brackets.
func (r *NoBareURLsRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		var edits []edit
		for _, span := range bareURLs(line) {
			edits = append(edits, edit{start: span.Start, end: span.End, text: "<" + line[span.Start:span.End] + ">"})
		}
		return applyEdits(line, edits)
	})
}

// bareURLs returns the spans of URLs not inside code spans, links, angle
// brackets, quotes, or HTML attributes. Trailing sentence punctuation is not
// part of the URL.
func bareURLs(line string) []mdlines.Span {
	if referenceDefinitionPattern.MatchString(line) {
		return nil
	}

	masked := mdlines.MaskCodeSpans(line)

	var links []mdlines.Span
	for _, loc := range inlineLinkPattern.FindAllStringIndex(masked, -1) {
		links = append(links, mdlines.Span{Start: loc[0], End: loc[1]})
	}

	var found []mdlines.Span
	for _, loc := range bareURLPattern.FindAllStringIndex(masked, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && strings.IndexByte("<(['\"=`/", masked[start-1]) >= 0 {
			continue
		}
		if mdlines.InSpans(links, start) {
			continue
		}

		for end > start && strings.IndexByte(".,;:!?*_~", masked[end-1]) >= 0 {
			end--
		}
		if end > start+len("http://") {
			found = append(found, mdlines.Span{Start: start, End: end})
		}
	}
	return found
}

// NoSpaceInLinksRule checks for spaces inside link text.
type NoSpaceInLinksRule struct {
	lint.BaseRule
}

// NewNoSpaceInLinksRule creates a new no-space-in-links rule.
func NewNoSpaceInLinksRule() *NoSpaceInLinksRule {
	return &NoSpaceInLinksRule{
		BaseRule: lint.NewBaseRule(
			"MD039",
			"no-space-in-links",
			"Spaces inside link text",
			[]string{"whitespace", "links"},
		),
	}
}

// Validate reports links such as "[ text ](target)".
func (r *NoSpaceInLinksRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		for _, loc := range paddedLinkText(line) {
			out = append(out, lint.NewViolation(idx+1, line[loc[0]:loc[1]], loc[0], loc[1]))
		}
	}
	return out
}

// Fix trims the link text.
func (r *NoSpaceInLinksRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		var edits []edit
		for _, loc := range paddedLinkText(line) {
			edits = append(edits, edit{start: loc[2], end: loc[3]}, edit{start: loc[4], end: loc[5]})
		}
		return applyEdits(line, edits)
	})
}

func paddedLinkText(line string) [][]int {
	masked := mdlines.MaskCodeSpans(line)

	var found [][]int
	for _, loc := range linkTextPattern.FindAllStringSubmatchIndex(masked, -1) {
		if loc[0] > 0 && masked[loc[0]-1] == '!' {
			continue
		}
		if loc[3] > loc[2] || loc[5] > loc[4] {
			found = append(found, loc)
		}
	}
	return found
}

// NoEmptyLinksRule checks for links without a destination.
type NoEmptyLinksRule struct {
	lint.BaseRule
}

// NewNoEmptyLinksRule creates a new no-empty-links rule.
func NewNoEmptyLinksRule() *NoEmptyLinksRule {
	return &NoEmptyLinksRule{
		BaseRule: lint.NewBaseRule(
			"MD042",
			"no-empty-links",
			"No empty links",
			[]string{"links"},
		),
	}
}

// Validate reports "[text]()" and "[text](#)".
func (r *NoEmptyLinksRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}

		masked := mdlines.MaskCodeSpans(line)
		for _, loc := range inlineLinkPattern.FindAllStringSubmatchIndex(masked, -1) {
			if masked[loc[0]] == '!' {
				continue
			}
			target := strings.TrimSpace(masked[loc[4]:loc[5]])
			if target == "" || target == "#" {
				out = append(out, lint.NewViolation(idx+1, line[loc[0]:loc[1]], loc[0], loc[1]))
			}
		}
	}
	return out
}

// NoAltTextRule checks that images have alternate text.
type NoAltTextRule struct {
	lint.BaseRule
}

// NewNoAltTextRule creates a new no-alt-text rule.
func NewNoAltTextRule() *NoAltTextRule {
	return &NoAltTextRule{
		BaseRule: lint.NewBaseRule(
			"MD045",
			"no-alt-text",
			"Images should have alternate text (alt text)",
			[]string{"accessibility", "images"},
		),
	}
}

// Validate reports "![](src)" and "![][ref]".
func (r *NoAltTextRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		masked := mdlines.MaskCodeSpans(line)
		for _, loc := range emptyAltPattern.FindAllStringIndex(masked, -1) {
			out = append(out, lint.NewViolation(idx+1, "", loc[0], loc[1]))
		}
	}
	return out
}
