package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/pkg/config"
)

func TestSafeDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "api"), 0o755))
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	got, err := SafeDir(root, "docs/api")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realRoot, "docs", "api"), got)

	got, err = SafeDir(root, root)
	require.NoError(t, err)
	assert.Equal(t, realRoot, got)

	for _, dir := range []string{"", "docs\x00api", "docs/../..", strings.Repeat("x", maxDirLength+1), "/"} {
		_, err := SafeDir(root, dir)
		assert.ErrorIs(t, err, ErrUnsafePath, "dir %q", dir)
	}
}

func TestSafeDir_SymlinkOutsideRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := SafeDir(root, "escape")
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestFindConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "repo", ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "repo", "docs"), 0o755))

	got, err := FindConfig(context.Background(), root, filepath.Join(root, "repo", "docs"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FindConfig(context.Background(), root, root)
	require.NoError(t, err)
	assert.Equal(t, ".markdownlint.json", filepath.Base(got))
}

func TestFindConfig_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	_, err := FindConfig(ctx, root, root)
	require.ErrorIs(t, err, context.Canceled)

	_, err = Load(ctx, root, loadOpts(root))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStripJSONComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "line comment", input: "{\"a\": 1} // note\n", want: "{\"a\": 1} \n"},
		{name: "block comment", input: "{/* x */\"a\": 1}", want: "{\"a\": 1}"},
		{name: "slashes in string", input: `{"url": "https://x.com"}`, want: `{"url": "https://x.com"}`},
		{name: "escaped quote", input: `{"a": "b\" // c"}`, want: `{"a": "b\" // c"}`},
		{name: "unterminated block", input: "{} /* open", want: "{} "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(stripJSONComments([]byte(tt.input))))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.SetRule("MD013", config.RuleConfig{Options: map[string]any{
		"line_length": 80.5,
		"strict":      "yes",
		"custom":      struct{}{},
	}})
	cfg.SetRule("MD044", config.RuleConfig{Options: map[string]any{
		"names":       []any{"Go", 3},
		"code_blocks": true,
	}})
	cfg.SetRule("MD025", config.RuleConfig{Options: map[string]any{"level": float64(2)}})

	assert.Equal(t, []string{
		"rules.MD013.line_length: expected an integer, got 80.5; using the default",
		"rules.MD013.strict: expected a boolean, got yes; using the default",
		"rules.MD044.names: expected a list of strings, got [Go 3]; using the default",
	}, Validate(cfg))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	disabled := false
	base := config.NewConfig()
	override := &config.Config{
		Rules: map[string]config.RuleConfig{
			"MD013": {Options: map[string]any{"strict": true}},
			"MD009": {Enabled: &disabled},
		},
		Ignore: []string{"build/**"},
	}

	merged := merge(base, override)

	assert.Equal(t, map[string]any{"line_length": config.DefaultLineLength, "strict": true}, merged.RuleOptions("MD013"))
	assert.False(t, merged.RuleEnabled("MD009"))
	assert.False(t, merged.RuleEnabled("MD033"))
	assert.Equal(t, []string{"build/**"}, merged.Ignore)
	assert.Equal(t, map[string]any{"line_length": config.DefaultLineLength}, base.RuleOptions("MD013"))
	assert.Same(t, base, merge(base, nil))
}
