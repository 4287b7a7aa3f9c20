package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
	"github.com/yaklabco/mdfix/pkg/safematch"
)

// Emphasis patterns. Inner text may not start or end with whitespace and may
// not contain the marker character.
var (
	strongStarPattern       = regexp.MustCompile(`\*\*[^*\s](?:[^*]*[^*\s])?\*\*`)
	strongUnderscorePattern = regexp.MustCompile(`__[^_\s](?:[^_]*[^_\s])?__`)
	emStarPattern           = regexp.MustCompile(`\*[^*\s](?:[^*]*[^*\s])?\*`)
	emUnderscorePattern     = regexp.MustCompile(`_[^_\s](?:[^_]*[^_\s])?_`)
)

// Spaced emphasis patterns capture the padding inside the markers.
var (
	spacedStrongStarPattern       = regexp.MustCompile(`\*\*([ \t]*)[^*\s](?:[^*]*[^*\s])?([ \t]*)\*\*`)
	spacedStrongUnderscorePattern = regexp.MustCompile(`__([ \t]*)[^_\s](?:[^_]*[^_\s])?([ \t]*)__`)
	spacedEmStarPattern           = regexp.MustCompile(`\*([ \t]*)[^*\s](?:[^*]*[^*\s])?([ \t]*)\*`)
	spacedEmUnderscorePattern     = regexp.MustCompile(`_([ \t]*)[^_\s](?:[^_]*[^_\s])?([ \t]*)_`)
)

// emphasisOnlyPattern matches a line that is a single emphasized phrase.
var emphasisOnlyPattern = regexp.MustCompile(`^(\*\*|__|\*|_)([^*_\s](?:[^*_]*[^*_\s])?)(\*\*|__|\*|_)$`)

// delimited is an emphasis span found in a line.
type delimited struct {
	start int
	end   int

	// marker is the opening delimiter: "*", "_", "**", or "__".
	marker string

	// loc holds the absolute submatch offsets.
	loc []int
}

func (d delimited) inner() (start, end int) {
	return d.start + len(d.marker), d.end - len(d.marker)
}

// findDelimited returns the non-overlapping matches of re in text. Matches
// delimited by underscores must not touch a word character on either side,
// and no match may touch another marker character outside its delimiters.
func findDelimited(text string, re *regexp.Regexp, marker string) []delimited {
	var found []delimited
	for pos := 0; pos < len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		start, end := loc[0], loc[1]
		if !delimiterBoundary(text, start, end, marker[0]) {
			pos = start + 1
			continue
		}

		found = append(found, delimited{start: start, end: end, marker: marker, loc: loc})
		pos = end
	}
	return found
}

func delimiterBoundary(text string, start, end int, char byte) bool {
	if start > 0 && (text[start-1] == char || (char == '_' && safematch.IsWordByte(text[start-1]))) {
		return false
	}
	if end < len(text) && (text[end] == char || (char == '_' && safematch.IsWordByte(text[end]))) {
		return false
	}
	return true
}

// maskInline blanks code spans and a leading list marker so that emphasis
// searches only see inline text.
func maskInline(line string) string {
	masked := mdlines.MaskCodeSpans(line)
	if item, ok := mdlines.ParseListItem(masked); ok && !item.Ordered {
		masked = masked[:item.Indent] + " " + masked[item.Indent+1:]
	}
	return masked
}

// blankRange replaces text[start:end] with spaces.
func blankRange(text string, start, end int) string {
	return text[:start] + strings.Repeat(" ", end-start) + text[end:]
}

// emphasisSpans returns the strong and regular emphasis spans of a line.
func emphasisSpans(line string) (strong, em []delimited) {
	masked := maskInline(line)

	strong = append(findDelimited(masked, strongStarPattern, "**"),
		findDelimited(masked, strongUnderscorePattern, "__")...)
	for _, d := range strong {
		masked = blankRange(masked, d.start, d.start+2)
		masked = blankRange(masked, d.end-2, d.end)
	}

	em = append(findDelimited(masked, emStarPattern, "*"),
		findDelimited(masked, emUnderscorePattern, "_")...)

	return sortDelimited(strong), sortDelimited(em)
}

func sortDelimited(spans []delimited) []delimited {
	slices.SortFunc(spans, func(a, b delimited) int { return a.start - b.start })
	return spans
}

// NoEmphasisAsHeadingRule checks for emphasized lines used as headings.
type NoEmphasisAsHeadingRule struct {
	lint.BaseRule
}

// NewNoEmphasisAsHeadingRule creates a new no-emphasis-as-heading rule.
func NewNoEmphasisAsHeadingRule() *NoEmphasisAsHeadingRule {
	return &NoEmphasisAsHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD036",
			"no-emphasis-as-heading",
			"Emphasis used instead of a heading",
			[]string{"headings", "emphasis"},
		),
	}
}

const defaultEmphasisPunctuation = ".,;:!?。，；：！？"

// Validate reports single-line paragraphs made of one emphasized phrase that
// does not end in punctuation.
func (r *NoEmphasisAsHeadingRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, text string) {
		out = append(out, lint.NewLineViolation(idx+1, text))
	})
	return out
}

// Fix turns each reported line into an ATX heading at heading_level.
func (r *NoEmphasisAsHeadingRule) Fix(rc *lint.RuleContext) []string {
	level := clamp(rc.OptionInt("heading_level", 2), 1, maxHeadingLevel)

	out := rc.CopyLines()
	r.scan(rc, func(idx int, text string) {
		out[idx] = atxHeading(level, text, false)
	})
	return out
}

func (r *NoEmphasisAsHeadingRule) scan(rc *lint.RuleContext, report func(idx int, text string)) {
	punctuation := rc.OptionString("punctuation", defaultEmphasisPunctuation)
	lines := rc.Lines
	layout := rc.Layout()

	for idx, line := range lines {
		if !layout.IsProse(idx) || mdlines.LeadingSpaces(line) > 3 {
			continue
		}
		if !isolatedLine(lines, layout, idx) {
			continue
		}

		match := emphasisOnlyPattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil || match[1] != match[3] {
			continue
		}
		if safematch.EndsWithPunctuation(match[2], punctuation) {
			continue
		}

		report(idx, match[2])
	}
}

// isolatedLine reports whether line idx is a paragraph of its own.
func isolatedLine(lines []string, layout *mdlines.Layout, idx int) bool {
	before := idx == 0 || !layout.IsProse(idx-1) || mdlines.IsBlank(lines[idx-1])
	after := idx+1 >= len(lines) || !layout.IsProse(idx+1) || mdlines.IsBlank(lines[idx+1])
	return before && after
}

// NoSpaceInEmphasisRule checks for spaces inside emphasis markers.
type NoSpaceInEmphasisRule struct {
	lint.BaseRule
}

// NewNoSpaceInEmphasisRule creates a new no-space-in-emphasis rule.
func NewNoSpaceInEmphasisRule() *NoSpaceInEmphasisRule {
	return &NoSpaceInEmphasisRule{
		BaseRule: lint.NewBaseRule(
			"MD037",
			"no-space-in-emphasis",
			"Spaces inside emphasis markers",
			[]string{"whitespace", "emphasis"},
		),
	}
}

// Validate reports emphasis such as "** bold **" or "*text *".
func (r *NoSpaceInEmphasisRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}
		for _, d := range spacedEmphasis(line) {
			out = append(out, lint.NewViolation(idx+1, line[d.start:d.end], d.start, d.end))
		}
	}
	return out
}

// Fix removes the padding.
func (r *NoSpaceInEmphasisRule) Fix(rc *lint.RuleContext) []string {
	return mapProse(rc, func(_ int, line string) string {
		var edits []edit
		for _, d := range spacedEmphasis(line) {
			for _, group := range [][2]int{{d.loc[2], d.loc[3]}, {d.loc[4], d.loc[5]}} {
				if group[1] > group[0] {
					edits = append(edits, edit{start: group[0], end: group[1]})
				}
			}
		}
		return applyEdits(line, edits)
	})
}

// spacedEmphasis returns the emphasis spans of line padded inside their markers.
func spacedEmphasis(line string) []delimited {
	masked := maskInline(line)

	var spaced []delimited
	collect := func(re *regexp.Regexp, marker string) {
		for _, d := range findDelimited(masked, re, marker) {
			if d.loc[3] > d.loc[2] || d.loc[5] > d.loc[4] {
				spaced = append(spaced, d)
			}
			masked = blankRange(masked, d.start, d.end)
		}
	}

	collect(spacedStrongStarPattern, "**")
	collect(spacedStrongUnderscorePattern, "__")
	collect(spacedEmStarPattern, "*")
	collect(spacedEmUnderscorePattern, "_")

	return sortDelimited(spaced)
}

// Emphasis style option values.
const (
	emphasisAsterisk   = "asterisk"
	emphasisUnderscore = "underscore"
)

// emphasisStyleRule holds the logic shared by the emphasis and strong style rules.
type emphasisStyleRule struct {
	lint.BaseRule
	strong bool
}

// EmphasisStyleRule checks that emphasis uses one marker.
type EmphasisStyleRule struct {
	emphasisStyleRule
}

// NewEmphasisStyleRule creates a new emphasis-style rule.
func NewEmphasisStyleRule() *EmphasisStyleRule {
	return &EmphasisStyleRule{emphasisStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD049",
			"emphasis-style",
			"Emphasis style",
			[]string{"emphasis"},
		),
	}}
}

// StrongStyleRule checks that strong emphasis uses one marker.
type StrongStyleRule struct {
	emphasisStyleRule
}

// NewStrongStyleRule creates a new strong-style rule.
func NewStrongStyleRule() *StrongStyleRule {
	return &StrongStyleRule{emphasisStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD050",
			"strong-style",
			"Strong style",
			[]string{"emphasis"},
		),
		strong: true,
	}}
}

// Validate reports spans whose marker differs from the expected one.
func (r *emphasisStyleRule) Validate(rc *lint.RuleContext) []lint.Violation {
	var out []lint.Violation
	r.scan(rc, func(idx int, d delimited, want byte) {
		out = append(out, lint.NewViolation(idx+1,
			fmt.Sprintf("Expected: %s; Actual: %s", emphasisName(want), emphasisName(d.marker[0])),
			d.start, d.end))
	})
	return out
}

// Fix swaps the markers. Spans whose text contains the new marker, or
// underscores that would sit inside a word, are left alone.
func (r *emphasisStyleRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()
	edits := make(map[int][]edit)

	r.scan(rc, func(idx int, d delimited, want byte) {
		line := rc.Lines[idx]
		innerStart, innerEnd := d.inner()
		if strings.IndexByte(line[innerStart:innerEnd], want) >= 0 {
			return
		}
		if want == '_' && ((d.start > 0 && safematch.IsWordByte(line[d.start-1])) ||
			(d.end < len(line) && safematch.IsWordByte(line[d.end]))) {
			return
		}

		marker := strings.Repeat(string(want), len(d.marker))
		edits[idx] = append(edits[idx],
			edit{start: d.start, end: innerStart, text: marker},
			edit{start: innerEnd, end: d.end, text: marker})
	})

	for idx, lineEdits := range edits {
		out[idx] = applyEdits(out[idx], lineEdits)
	}
	return out
}

func (r *emphasisStyleRule) scan(rc *lint.RuleContext, report func(idx int, d delimited, want byte)) {
	var want byte
	switch rc.OptionString("style", styleConsistent) {
	case emphasisAsterisk:
		want = '*'
	case emphasisUnderscore:
		want = '_'
	}

	for idx, line := range rc.Lines {
		if !rc.Layout().IsProse(idx) {
			continue
		}

		strong, em := emphasisSpans(line)
		spans := em
		if r.strong {
			spans = strong
		}

		for _, d := range spans {
			if want == 0 {
				want = d.marker[0]
				continue
			}
			if d.marker[0] != want {
				report(idx, d, want)
			}
		}
	}
}

func emphasisName(char byte) string {
	if char == '_' {
		return emphasisUnderscore
	}
	return emphasisAsterisk
}
