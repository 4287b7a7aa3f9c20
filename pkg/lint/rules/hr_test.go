package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHRStyleRule(t *testing.T) {
	t.Parallel()

	runRuleCases(t, NewHRStyleRule(), []ruleCase{
		{
			name:      "follows the first break",
			input:     "text\n\n---\n\n***\n",
			wantLines: []int{5},
			wantFix:   "text\n\n---\n\n---\n",
		},
		{
			name:      "configured style",
			input:     "text\n\n---\n",
			opts:      map[string]any{"style": "***"},
			wantLines: []int{3},
			wantFix:   "text\n\n***\n",
		},
		{
			name:      "spaced style",
			input:     "* * *\n\n***\n",
			wantLines: []int{3},
			wantFix:   "* * *\n\n* * *\n",
		},
		{
			name:    "setext underline is not a break",
			input:   "Title\n---\n\n***\n",
			wantFix: "Title\n---\n\n***\n",
		},
		{
			name:      "dashes would form a setext heading",
			input:     "text\n***\n",
			opts:      map[string]any{"style": "---"},
			wantLines: []int{2},
			wantFix:   "text\n***\n",
		},
		{
			name:    "invalid style falls back to consistent",
			input:   "text\n\n***\n\n***\n",
			opts:    map[string]any{"style": "wavy"},
			wantFix: "text\n\n***\n\n***\n",
		},
	})

	got := violations(t, NewHRStyleRule(), "text\n\n---\n\n***\n", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Expected: ---; Actual: ***", got[0].Details)
}
