package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/pkg/lint"
)

func TestHeadingIncrementRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewHeadingIncrementRule(), []ruleCase{
		{name: "increments by one", input: "# A\n## B\n### C\n"},
		{name: "skips a level", input: "# A\n### B\n", wantLines: []int{2}},
		{name: "going back up is fine", input: "# A\n## B\n### C\n# D\n### E\n", wantLines: []int{5}},
		{name: "headings in code are ignored", input: "# A\n```\n### B\n```\n"},
	})

	got := violations(t, NewHeadingIncrementRule(), "# A\n### B\n", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Expected: h2; Actual: h3", got[0].Details)
}

func TestHeadingStyleRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewHeadingStyleRule(), []ruleCase{
		{
			name:    "consistent atx",
			input:   "# A\n\n## B\n",
			wantFix: "# A\n\n## B\n",
		},
		{
			name:      "setext after atx",
			input:     "# A\n\nB\n===\n",
			wantLines: []int{3},
			wantFix:   "# A\n\n# B\n",
		},
		{
			name:      "atx_closed style",
			input:     "# A\n",
			opts:      map[string]any{"style": "atx_closed"},
			wantLines: []int{1},
			wantFix:   "# A #\n",
		},
		{
			name:      "setext style leaves deep headings",
			input:     "# A\n\n## B\n\n### C\n",
			opts:      map[string]any{"style": "setext"},
			wantLines: []int{1, 3},
			wantFix:   "A\n===\n\nB\n---\n\n### C\n",
		},
		{
			name:      "setext_with_atx",
			input:     "A\n===\n\n### C ###\n",
			opts:      map[string]any{"style": "setext_with_atx"},
			wantLines: []int{4},
			wantFix:   "A\n===\n\n### C\n",
		},
		{
			name:      "list-like text stays atx",
			input:     "A\n===\n\n## - item\n",
			opts:      map[string]any{"style": "setext"},
			wantLines: []int{4},
			wantFix:   "A\n===\n\n## - item\n",
		},
	})
}

func TestNoMissingSpaceATXRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoMissingSpaceATXRule(), []ruleCase{
		{name: "missing space", input: "#Heading\n", wantLines: []int{1}, wantFix: "# Heading\n"},
		{name: "level two", input: "##Two\n", wantLines: []int{1}, wantFix: "## Two\n"},
		{name: "with space", input: "# Heading\n", wantFix: "# Heading\n"},
		{name: "closed form belongs elsewhere", input: "#Heading#\n", wantFix: "#Heading#\n"},
		{name: "too many hashes", input: "#######Seven\n", wantFix: "#######Seven\n"},
		{name: "code block", input: "```\n#include\n```\n", wantFix: "```\n#include\n```\n"},
	})
}

func TestNoMultipleSpaceATXRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoMultipleSpaceATXRule(), []ruleCase{
		{name: "two spaces", input: "##  Spaced\n", wantLines: []int{1}, wantFix: "## Spaced\n"},
		{name: "tab and space", input: "#\t Tab\n", wantLines: []int{1}, wantFix: "# Tab\n"},
		{name: "single space", input: "# Fine\n", wantFix: "# Fine\n"},
		{name: "closed headings are not checked", input: "#  Closed #\n", wantFix: "#  Closed #\n"},
	})
}

func TestNoMissingSpaceClosedATXRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoMissingSpaceClosedATXRule(), []ruleCase{
		{name: "both sides", input: "#Heading#\n", wantLines: []int{1}, wantFix: "# Heading #\n"},
		{name: "right side", input: "## Heading##\n", wantLines: []int{1}, wantFix: "## Heading ##\n"},
		{name: "hash in text", input: "# C#\n", wantFix: "# C#\n"},
		{name: "well formed", input: "# Heading #\n", wantFix: "# Heading #\n"},
		{name: "escaped closing hash", input: "#Heading\\#\n", wantFix: "#Heading\\#\n"},
	})
}

func TestNoMultipleSpaceClosedATXRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoMultipleSpaceClosedATXRule(), []ruleCase{
		{name: "both sides", input: "#  Heading  #\n", wantLines: []int{1}, wantFix: "# Heading #\n"},
		{name: "right side", input: "## Heading   ##\n", wantLines: []int{1}, wantFix: "## Heading ##\n"},
		{name: "well formed", input: "# Heading #\n", wantFix: "# Heading #\n"},
		{name: "open heading", input: "#  Heading\n", wantFix: "#  Heading\n"},
	})
}

func TestHeadingBlankLinesRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewHeadingBlankLinesRule(), []ruleCase{
		{
			name:    "surrounded",
			input:   "text\n\n# A\n\nmore\n",
			wantFix: "text\n\n# A\n\nmore\n",
		},
		{
			name:      "missing below",
			input:     "# A\ntext\n",
			wantLines: []int{1},
			wantFix:   "# A\n\ntext\n",
		},
		{
			name:      "missing above",
			input:     "text\n# A\n",
			wantLines: []int{2},
			wantFix:   "text\n\n# A\n",
		},
		{
			name:      "missing both",
			input:     "text\n# A\nmore\n",
			wantLines: []int{2, 2},
			wantFix:   "text\n\n# A\n\nmore\n",
		},
		{
			name:      "setext underline",
			input:     "text\n\nA\n===\nmore\n",
			wantLines: []int{4},
			wantFix:   "text\n\nA\n===\n\nmore\n",
		},
		{
			name:      "consecutive headings share a blank line",
			input:     "# A\n## B\n",
			wantLines: []int{1, 2},
			wantFix:   "# A\n\n## B\n",
		},
		{
			name:    "lines_above zero",
			input:   "text\n# A\n",
			opts:    map[string]any{"lines_above": 0},
			wantFix: "text\n# A\n",
		},
		{
			name:      "lines_above two",
			input:     "text\n\n# A\n",
			opts:      map[string]any{"lines_above": 2},
			wantLines: []int{3},
			wantFix:   "text\n\n\n# A\n",
		},
		{
			name:    "front matter before heading",
			input:   "---\ntitle: x\n---\n# A\n",
			wantFix: "---\ntitle: x\n---\n# A\n",
		},
	})

	got := violations(t, NewHeadingBlankLinesRule(), "text\n# A\n", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Expected: 1; Actual: 0; Above", got[0].Details)
}

func TestHeadingStartLeftRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewHeadingStartLeftRule(), []ruleCase{
		{name: "indented", input: "  # A\n", wantLines: []int{1}, wantFix: "# A\n"},
		{name: "indented setext", input: " A\n===\n", wantLines: []int{1}, wantFix: "A\n===\n"},
		{name: "inside list item", input: "- item\n\n  # A\n", wantFix: "- item\n\n  # A\n"},
		{name: "not indented", input: "# A\n", wantFix: "# A\n"},
	})
}

func TestNoDuplicateHeadingRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoDuplicateHeadingRule(), []ruleCase{
		{name: "unique", input: "# A\n## B\n"},
		{name: "duplicate anywhere", input: "# A\n## B\n# C\n## B\n", wantLines: []int{4}},
		{
			name:  "siblings only across parents",
			input: "# A\n## B\n# C\n## B\n",
			opts:  map[string]any{"siblings_only": true},
		},
		{
			name:      "siblings only under one parent",
			input:     "# A\n## B\n## B\n",
			opts:      map[string]any{"siblings_only": true},
			wantLines: []int{3},
		},
	})
}

func TestSingleH1Rule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewSingleH1Rule(), []ruleCase{
		{
			name:    "single heading",
			input:   "# A\n## B\n",
			wantFix: "# A\n## B\n",
		},
		{
			name:      "second top-level heading",
			input:     "# A\n# B\n",
			wantLines: []int{2},
			wantFix:   "# A\n## B\n",
		},
		{
			name:      "front matter title",
			input:     "---\ntitle: Doc\n---\n# A\n",
			wantLines: []int{4},
			wantFix:   "---\ntitle: Doc\n---\n## A\n",
		},
		{
			name:      "front matter title with equals",
			input:     "---\ntitle=MyTitle\n---\n# Heading\n",
			wantLines: []int{4},
			wantFix:   "---\ntitle=MyTitle\n---\n## Heading\n",
		},
		{
			name:    "front matter without title",
			input:   "---\nauthor: me\n---\n# A\n",
			wantFix: "---\nauthor: me\n---\n# A\n",
		},
		{
			name:      "setext level one",
			input:     "# A\n\nB\n===\n",
			wantLines: []int{3},
			wantFix:   "# A\n\nB\n---\n",
		},
		{
			name:      "setext level two",
			input:     "# A\n\nB\n---\n\nC\n---\n",
			opts:      map[string]any{"level": 2},
			wantLines: []int{6},
			wantFix:   "# A\n\nB\n---\n\n### C\n",
		},
		{
			name:      "custom pattern",
			input:     "---\nsubject: Doc\n---\n# A\n",
			opts:      map[string]any{"front_matter_title": "subject"},
			wantLines: []int{4},
			wantFix:   "---\nsubject: Doc\n---\n## A\n",
		},
	})
}

func TestSingleH1Rule_PatternFallback(t *testing.T) {
	t.Parallel()

	rule := NewSingleH1Rule()
	rc := lint.NewRuleContext(
		lint.SplitLines("---\nsubject: Doc\n---\n# A\n"),
		map[string]any{"front_matter_title": "^subject:"},
	)
	rc.Telemetry = lint.NewTelemetry()

	got := rule.Validate(rc)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].LineNumber)
	assert.Equal(t, map[string]int{"MD025": 1}, rc.Telemetry.FallbacksByRule())

	fixed := rule.Fix(rc)
	assert.Equal(t, "## A", fixed[3])
	assert.Equal(t, 2, rc.Telemetry.Fallbacks())
}

func TestSingleH1Rule_OverlongPattern(t *testing.T) {
	t.Parallel()

	rc := lint.NewRuleContext(
		lint.SplitLines("---\ntitle: Doc\n---\n# A\n"),
		map[string]any{"front_matter_title": strings.Repeat("t", 201)},
	)
	rc.Telemetry = lint.NewTelemetry()

	assert.Empty(t, NewSingleH1Rule().Validate(rc))
	assert.Zero(t, rc.Telemetry.Fallbacks())
}

func TestNoTrailingPunctuationRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewNoTrailingPunctuationRule(), []ruleCase{
		{name: "period", input: "# Heading.\n", wantLines: []int{1}, wantFix: "# Heading\n"},
		{name: "repeated", input: "## Heading!!!\n", wantLines: []int{1}, wantFix: "## Heading\n"},
		{name: "closed heading", input: "# Closed. #\n", wantLines: []int{1}, wantFix: "# Closed #\n"},
		{name: "setext", input: "Title:\n===\n", wantLines: []int{1}, wantFix: "Title\n===\n"},
		{name: "question mark allowed", input: "# Why?\n", wantFix: "# Why?\n"},
		{name: "entity", input: "# Copyright &copy;\n", wantFix: "# Copyright &copy;\n"},
		{name: "only punctuation", input: "# .\n", wantLines: []int{1}, wantFix: "# .\n"},
		{name: "full-width", input: "# 見出し。\n", wantLines: []int{1}, wantFix: "# 見出し\n"},
		{
			name:      "custom punctuation",
			input:     "# Why?\n",
			opts:      map[string]any{"punctuation": "?"},
			wantLines: []int{1},
			wantFix:   "# Why\n",
		},
	})
}
