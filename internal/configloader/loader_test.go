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
	"github.com/yaklabco/mdfix/pkg/lint"
	_ "github.com/yaklabco/mdfix/pkg/lint/rules" // Register rules
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func loadOpts(root string) LoadOptions {
	return LoadOptions{Root: root, Getenv: envMap(nil)}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	result, err := Load(context.Background(), root, loadOpts(root))
	require.NoError(t, err)

	assert.Empty(t, result.Source)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.Config.RuleEnabled("MD009"))
	assert.False(t, result.Config.RuleEnabled("MD033"))
	assert.False(t, result.Config.RuleEnabled("MD041"))
	assert.Equal(t, config.DefaultLineLength, result.Config.RuleOptions("MD013")["line_length"])
}

func TestLoad_MarkdownlintFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    ".markdownlint.json",
			content: `{"MD013": {"line_length": 100}, "no-trailing-spaces": false}`,
		},
		{
			name: "jsonc",
			file: ".markdownlint.jsonc",
			content: `{
  // line length
  "MD013": {"line_length": 100}, /* trailing
  spaces */ "no-trailing-spaces": false
}`,
		},
		{
			name:    "yaml",
			file:    ".markdownlint.yaml",
			content: "MD013:\n  line_length: 100\nno-trailing-spaces: false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeFile(t, filepath.Join(root, tt.file), tt.content)

			result, err := Load(context.Background(), root, loadOpts(root))
			require.NoError(t, err)

			assert.Equal(t, tt.file, filepath.Base(result.Source))
			assert.EqualValues(t, 100, result.Config.RuleOptions("MD013")["line_length"])
			assert.False(t, result.Config.RuleEnabled("MD009"))
			assert.True(t, result.Config.RuleEnabled("MD033"), "a file replaces the built-in defaults")
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestLoadForFile_SearchesParents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"default": false, "MD047": true}`)
	doc := filepath.Join(root, "docs", "guide", "intro.md")
	writeFile(t, doc, "# Intro\n")

	result, err := LoadForFile(context.Background(), doc, loadOpts(root))
	require.NoError(t, err)

	assert.Equal(t, ".markdownlint.json", filepath.Base(result.Source))
	assert.False(t, result.Config.RuleEnabled("MD009"))
	assert.True(t, result.Config.RuleEnabled("MD047"))
}

func TestLoad_NearestFileWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"MD009": false}`)
	writeFile(t, filepath.Join(root, "sub", ".markdownlint.yml"), "MD010: false\n")

	result, err := Load(context.Background(), filepath.Join(root, "sub"), loadOpts(root))
	require.NoError(t, err)

	assert.Equal(t, ".markdownlint.yml", filepath.Base(result.Source))
	assert.True(t, result.Config.RuleEnabled("MD009"))
	assert.False(t, result.Config.RuleEnabled("MD010"))
}

func TestLoad_UnsafeDirectoriesUseDefaults(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	writeFile(t, filepath.Join(parent, ".markdownlint.json"), `{"MD033": true}`)
	writeFile(t, filepath.Join(root, "doc.md"), "x\n")

	for _, dir := range []string{
		"",
		"docs\x00",
		"../",
		"a/../../b",
		strings.Repeat("a/", 600),
		parent,
		filepath.Join(root, "missing"),
	} {
		result, err := Load(context.Background(), dir, loadOpts(root))
		require.NoError(t, err, "dir %q", dir)
		assert.Empty(t, result.Source, "dir %q", dir)
		assert.False(t, result.Config.RuleEnabled("MD033"), "dir %q", dir)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"MD013": `)

	result, err := Load(context.Background(), root, loadOpts(root))
	require.NoError(t, err)

	assert.Empty(t, result.Source)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "using default configuration")
	assert.False(t, result.Config.RuleEnabled("MD033"))
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"MD009": false}`)
	explicit := filepath.Join(root, "custom.yaml")
	writeFile(t, explicit, "MD010: false\n")

	opts := loadOpts(root)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), root, opts)
	require.NoError(t, err)
	assert.Equal(t, explicit, result.Source)
	assert.True(t, result.Config.RuleEnabled("MD009"))
	assert.False(t, result.Config.RuleEnabled("MD010"))

	opts.ExplicitPath = filepath.Join(root, "missing.json")
	_, err = Load(context.Background(), root, opts)
	require.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_UnknownKeysWarn(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"),
		`{"$schema": "x", "extends": "base.json", "MD999": false, "MD013": {"line_length": "long"}}`)

	result, err := Load(context.Background(), root, loadOpts(root))
	require.NoError(t, err)

	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, `"extends" is not supported`)
	assert.Contains(t, joined, `unknown rule "MD999"`)
	assert.Contains(t, joined, "rules.MD013.line_length: expected an integer")
}

func TestLoad_TagKeys(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"headings": false, "MD025": true}`)

	result, err := Load(context.Background(), root, loadOpts(root))
	require.NoError(t, err)

	assert.False(t, result.Config.RuleEnabled("MD001"))
	assert.False(t, result.Config.RuleEnabled("MD022"))
	assert.True(t, result.Config.RuleEnabled("MD025"), "an explicit rule wins over its tag")
}

func TestLoad_Environment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := loadOpts(root)
	opts.Getenv = envMap(map[string]string{
		EnvDisable:    "line-length, MD009",
		EnvEnable:     "MD033,nonexistent",
		EnvLineLength: "90",
		EnvIgnore:     "vendor/**",
	})

	result, err := Load(context.Background(), root, opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.False(t, cfg.RuleEnabled("MD013"))
	assert.False(t, cfg.RuleEnabled("MD009"))
	assert.True(t, cfg.RuleEnabled("MD033"))
	assert.Equal(t, 90, cfg.RuleOptions("MD013")["line_length"])
	assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown rule "nonexistent"`)

	opts.IgnoreEnv = true
	result, err = Load(context.Background(), root, opts)
	require.NoError(t, err)
	assert.True(t, result.Config.RuleEnabled("MD013"))
}

func TestLoad_InvalidLineLength(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := loadOpts(root)
	opts.Getenv = envMap(map[string]string{EnvLineLength: "wide"})

	_, err := Load(context.Background(), root, opts)
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), EnvLineLength)
}

func TestLoad_CLIConfigWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"MD013": {"line_length": 100, "code_blocks": false}}`)

	cli := &config.Config{}
	cli.SetRule("line-length", config.RuleConfig{Options: map[string]any{"line_length": 60}})
	cli.DisableRules = []string{"MD047"}

	opts := loadOpts(root)
	opts.CLIConfig = cli

	result, err := Load(context.Background(), root, opts)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"line_length": 60, "code_blocks": false}, result.Config.RuleOptions("MD013"))
	assert.False(t, result.Config.RuleEnabled("MD047"))
	_, kept := cli.Rules["line-length"]
	assert.True(t, kept, "the CLI config is not modified")
}

func TestLoader_CachesByDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".markdownlint.json"), `{"MD009": false}`)

	loader := NewLoader(loadOpts(root))
	first, err := loader.ForFile(context.Background(), filepath.Join(root, "a.md"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, ".markdownlint.json")))

	second, err := loader.ForFile(context.Background(), filepath.Join(root, "b.md"))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, ".markdownlint.json")
	writeFile(t, path, `{"no-trailing-spaces": false, "MD013": {"line_length": 100}}`)

	out, warnings, err := Convert(path, lint.DefaultRegistry)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "# Generated by mdfix from "))
	assert.Contains(t, text, "MD009: false")
	assert.Contains(t, text, "line_length: 100")
	assert.NotContains(t, text, "no-trailing-spaces")
}
