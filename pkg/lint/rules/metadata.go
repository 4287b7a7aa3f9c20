package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/mdlines"
	"github.com/yaklabco/mdfix/pkg/safematch"
)

// htmlHeadingPattern matches an HTML heading element opening a line.
var htmlHeadingPattern = regexp.MustCompile(`(?i)^\s*<h([1-6])[\s>]`)

// FirstLineHeadingRule checks that the first line is a top-level heading.
type FirstLineHeadingRule struct {
	lint.BaseRule
}

// NewFirstLineHeadingRule creates a new first-line-heading rule.
func NewFirstLineHeadingRule() *FirstLineHeadingRule {
	return &FirstLineHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD041",
			"first-line-heading",
			"First line in a file should be a top-level heading",
			[]string{"headings"},
		),
	}
}

// Aliases returns the legacy name of the rule.
func (r *FirstLineHeadingRule) Aliases() []string {
	return []string{"first-line-h1"}
}

// Validate reports the first content line when it is not a heading at the
// configured level. A title in front matter satisfies the rule, and leading
// HTML comments are ignored.
func (r *FirstLineHeadingRule) Validate(rc *lint.RuleContext) []lint.Violation {
	recordTitleFallback(rc, r.ID())
	if frontMatterTitle(rc, rc.Lines) {
		return nil
	}

	level := clamp(rc.OptionInt("level", 1), 1, maxHeadingLevel)
	lines := rc.Lines
	layout := rc.Layout()

	first := -1
	inComment := false
	for idx := layout.ContentStart(); idx < contentLen(lines); idx++ {
		trimmed := strings.TrimSpace(lines[idx])
		switch {
		case inComment:
			inComment = !strings.Contains(trimmed, "-->")
			continue
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "<!--"):
			inComment = !strings.Contains(trimmed, "-->")
			continue
		}
		first = idx
		break
	}
	if first < 0 {
		return nil
	}

	if match := htmlHeadingPattern.FindStringSubmatch(lines[first]); match != nil && match[1] == fmt.Sprint(level) {
		return nil
	}
	for _, h := range mdlines.Headings(lines, layout) {
		if h.Index == first && h.Level == level {
			return nil
		}
		if h.Index >= first {
			break
		}
	}

	return []lint.Violation{lint.NewLineViolation(first+1, "")}
}

// ProperNamesRule checks the capitalization of configured proper names.
type ProperNamesRule struct {
	lint.BaseRule
}

// NewProperNamesRule creates a new proper-names rule.
func NewProperNamesRule() *ProperNamesRule {
	return &ProperNamesRule{
		BaseRule: lint.NewBaseRule(
			"MD044",
			"proper-names",
			"Proper names should have the correct capitalization",
			[]string{"spelling"},
		),
	}
}

// properName pairs the folded search key with its canonical spelling.
type properName struct {
	key     string
	correct string
}

// properNames builds the name table. A key keeps the position of its first
// occurrence; a later duplicate replaces the spelling.
func properNames(rc *lint.RuleContext) []properName {
	var names []properName
	index := make(map[string]int)

	for _, name := range rc.OptionStringSlice("names", nil) {
		if name == "" {
			continue
		}
		key := safematch.FoldASCII(name)
		if pos, ok := index[key]; ok {
			names[pos].correct = name
			continue
		}
		index[key] = len(names)
		names = append(names, properName{key: key, correct: name})
	}

	return names
}

// skippedLines marks lines the rule ignores: fence delimiters always, and
// code block content unless code_blocks is false.
func skippedLines(rc *lint.RuleContext) []bool {
	ignoreCode := rc.OptionBool("code_blocks", true)

	skip := make([]bool, len(rc.Lines))
	code := mdlines.Classify(rc.Lines)
	for idx, line := range rc.Lines {
		skip[idx] = mdlines.IsFence(line) || (ignoreCode && code[idx])
	}
	return skip
}

// Validate reports every whole-word occurrence whose spelling differs from
// the configured one.
func (r *ProperNamesRule) Validate(rc *lint.RuleContext) []lint.Violation {
	names := properNames(rc)
	if len(names) == 0 {
		return nil
	}

	skip := skippedLines(rc)

	var out []lint.Violation
	for idx, line := range rc.Lines {
		if skip[idx] {
			continue
		}
		for _, name := range names {
			for _, pos := range safematch.FindWordMatches(line, name.key) {
				found := line[pos : pos+len(name.key)]
				if found == name.correct {
					continue
				}
				out = append(out, lint.NewViolation(idx+1,
					fmt.Sprintf("Proper name %q should be %q", found, name.correct),
					pos, pos+len(name.key)))
			}
		}
	}

	return out
}

// Fix rewrites each occurrence with the configured spelling. Names are
// applied in table order, each to the line produced by the previous one.
func (r *ProperNamesRule) Fix(rc *lint.RuleContext) []string {
	out := rc.CopyLines()

	names := properNames(rc)
	if len(names) == 0 {
		return out
	}

	skip := skippedLines(rc)
	for idx := range out {
		if skip[idx] {
			continue
		}
		for _, name := range names {
			out[idx] = replaceWord(out[idx], name)
		}
	}

	return out
}

func replaceWord(line string, name properName) string {
	matches := safematch.FindWordMatches(line, name.key)
	if len(matches) == 0 {
		return line
	}

	var sb strings.Builder
	cursor := 0
	for _, pos := range matches {
		if pos < cursor {
			continue
		}
		sb.WriteString(line[cursor:pos])
		sb.WriteString(name.correct)
		cursor = pos + len(name.key)
	}
	sb.WriteString(line[cursor:])

	return sb.String()
}
