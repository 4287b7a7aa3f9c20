package mdlines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdfix/pkg/mdlines"
)

func TestIsCodeBlock(t *testing.T) {
	t.Parallel()

	lines := []string{
		"intro",        // 0
		"```go",        // 1 opening fence
		"code",         // 2
		"~~~",          // 3 different char, stays open
		"```",          // 4 closing fence
		"after",        // 5
		"    indented", // 6
		"~~~~",         // 7 opening tilde fence
		"```",          // 8 backticks do not close tildes
		"~~~",          // 9 closes
		"tail",         // 10
	}

	want := []bool{false, true, true, true, true, false, true, true, true, true, false}
	for idx, expected := range want {
		assert.Equal(t, expected, mdlines.IsCodeBlock(lines, idx), "line %d", idx)
	}

	assert.False(t, mdlines.IsCodeBlock(lines, -1))
	assert.False(t, mdlines.IsCodeBlock(lines, len(lines)))
	assert.False(t, mdlines.IsCodeBlock(nil, 0))
}

func TestClassify_MatchesIsCodeBlock(t *testing.T) {
	t.Parallel()

	docs := [][]string{
		{},
		{"```"},
		{"```", "a", "```", "b", "  ```js", "c"},
		{"~~~", "```", "x", "~~~", "y"},
		{"    a", "b", "\t```", "c"},
	}

	for _, doc := range docs {
		got := mdlines.Classify(doc)
		assert.Len(t, got, len(doc))
		for idx := range doc {
			assert.Equal(t, mdlines.IsCodeBlock(doc, idx), got[idx], "doc %q line %d", doc, idx)
		}
	}
}

func TestFencedBlocks(t *testing.T) {
	t.Parallel()

	lines := []string{"```go", "x", "```", "text", "~~~", "unterminated"}
	blocks := mdlines.FencedBlocks(lines)

	assert.Equal(t, []mdlines.FencedBlock{
		{Open: 0, Close: 2, Char: '`'},
		{Open: 4, Close: -1, Char: '~'},
	}, blocks)
}

func TestFenceInfo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", mdlines.FenceInfo("```go"))
	assert.Equal(t, "js title=x", mdlines.FenceInfo("  ~~~ js title=x "))
	assert.Empty(t, mdlines.FenceInfo("```"))
	assert.Empty(t, mdlines.FenceInfo("plain"))
}

func TestFrontMatterEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"yaml", []string{"---", "title: x", "---", "# H"}, 2},
		{"yaml dots", []string{"---", "a: b", "...", "text"}, 2},
		{"toml", []string{"+++", "title = 'x'", "+++"}, 2},
		{"unterminated", []string{"---", "title: x"}, -1},
		{"not first line", []string{"", "---", "a", "---"}, -1},
		{"empty", nil, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, mdlines.FrontMatterEnd(tc.lines))
		})
	}

	assert.Equal(t, []string{"title: x"}, mdlines.FrontMatter([]string{"---", "title: x", "---"}))
	assert.Nil(t, mdlines.FrontMatter([]string{"# no"}))
}

func TestLayout(t *testing.T) {
	t.Parallel()

	lines := []string{"---", "title: x", "---", "text", "```", "code", "```"}
	layout := mdlines.NewLayout(lines)

	assert.True(t, layout.InFrontMatter(1))
	assert.False(t, layout.IsProse(2))
	assert.True(t, layout.IsProse(3))
	assert.True(t, layout.InCode(5))
	assert.False(t, layout.IsProse(5))
	assert.False(t, layout.IsProse(99))
	assert.Equal(t, 3, layout.ContentStart())
}
