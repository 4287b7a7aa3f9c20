package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/internal/cli"
	"github.com/yaklabco/mdfix/pkg/reporter"
)

// dirtyDoc has trailing spaces on line 1, which MD009/no-trailing-spaces
// reports and fixes.
const (
	dirtyDoc = "# Hello World   \n\nSome text.\n"
	fixedDoc = "# Hello World\n\nSome text.\n"
)

// workspace creates a temporary directory holding files and makes it the
// working directory for the rest of the test.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestLint_Clean(t *testing.T) {
	workspace(t, map[string]string{"README.md": fixedDoc})

	stdout, _, err := execute(t, "lint", "--no-env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues found")
}

func TestLint_ReportsIssues(t *testing.T) {
	workspace(t, map[string]string{"README.md": dirtyDoc, "docs/guide.md": fixedDoc})

	stdout, _, err := execute(t, "lint", "--no-env")
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))

	assert.Contains(t, stdout, "README.md (1 issue)")
	assert.Contains(t, stdout, "MD009/no-trailing-spaces")
	assert.NotContains(t, stdout, "guide.md")
}

func TestLint_DisableFlag(t *testing.T) {
	workspace(t, map[string]string{"README.md": dirtyDoc})

	_, _, err := execute(t, "lint", "--no-env", "--disable", "no-trailing-spaces")
	require.NoError(t, err)
}

func TestLint_ConfigFileDiscovered(t *testing.T) {
	workspace(t, map[string]string{
		"README.md":          dirtyDoc,
		".markdownlint.json": `{"MD009": false}`,
	})

	_, _, err := execute(t, "lint", "--no-env")
	require.NoError(t, err)
}

func TestLint_JSON(t *testing.T) {
	workspace(t, map[string]string{"README.md": dirtyDoc})

	stdout, _, err := execute(t, "lint", "--no-env", "--format", "json")
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "mdfix", out.Tool)
	assert.Equal(t, "1.2.3", out.Version)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "README.md", out.Files[0].Path)
	require.Len(t, out.Files[0].Violations, 1)
	assert.Equal(t, "MD009", out.Files[0].Violations[0].RuleID)
	assert.Equal(t, 1, out.Summary.Issues)
}

func TestLint_Summary(t *testing.T) {
	workspace(t, map[string]string{"README.md": dirtyDoc, "docs/b.md": dirtyDoc + "More text.  \t \n"})

	stdout, _, err := execute(t, "lint", "--no-env", "--format", "summary", "--sort", "alpha")
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Contains(t, stdout, "RULE")
	assert.Contains(t, stdout, "no-trailing-spaces")
	assert.Contains(t, stdout, "FILE")
	assert.Contains(t, stdout, "docs/b.md")
}

func TestLint_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown format", args: []string{"lint", "--format", "xml"}, want: cli.ExitInvalidUsage},
		{name: "unknown sort", args: []string{"lint", "--sort", "size"}, want: cli.ExitInvalidUsage},
		{name: "bad ignore glob", args: []string{"lint", "--ignore", "[oops"}, want: cli.ExitInvalidUsage},
		{name: "missing path", args: []string{"lint", "missing.md"}, want: cli.ExitIOError},
		{name: "missing config", args: []string{"--config", "nope.json", "lint"}, want: cli.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t, map[string]string{"README.md": fixedDoc})

			_, _, err := execute(t, append(tt.args, "--no-env")...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestFix_WritesFiles(t *testing.T) {
	dir := workspace(t, map[string]string{"README.md": dirtyDoc})

	stdout, _, err := execute(t, "fix", "--no-env")
	require.NoError(t, err)

	assert.Equal(t, fixedDoc, readFile(t, filepath.Join(dir, "README.md")))
	assert.Contains(t, stdout, "Fixed 1 file")
	assert.Contains(t, stdout, "issues before: 1  remaining: 0")
	assert.NoFileExists(t, filepath.Join(dir, "README.md.mdfix.bak"))
}

func TestFix_DryRunShowsDiff(t *testing.T) {
	dir := workspace(t, map[string]string{"README.md": dirtyDoc})

	stdout, _, err := execute(t, "fix", "--no-env", "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, dirtyDoc, readFile(t, filepath.Join(dir, "README.md")))
	assert.Contains(t, stdout, "--- a/README.md")
	assert.Contains(t, stdout, "-# Hello World   ")
	assert.Contains(t, stdout, "+# Hello World\n")
}

func TestFix_Backup(t *testing.T) {
	dir := workspace(t, map[string]string{"README.md": dirtyDoc})

	_, _, err := execute(t, "fix", "--no-env", "--backup")
	require.NoError(t, err)

	assert.Equal(t, fixedDoc, readFile(t, filepath.Join(dir, "README.md")))
	assert.Equal(t, dirtyDoc, readFile(t, filepath.Join(dir, "README.md.mdfix.bak")))
}

func TestFix_RulesRestrictsFixers(t *testing.T) {
	dir := workspace(t, map[string]string{"README.md": dirtyDoc})

	_, _, err := execute(t, "fix", "--no-env", "--rules", "MD047", "--strict")
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, dirtyDoc, readFile(t, filepath.Join(dir, "README.md")))
}

func TestFix_NoWrite(t *testing.T) {
	dir := workspace(t, map[string]string{"README.md": dirtyDoc})

	_, _, err := execute(t, "fix", "--no-env", "--write=false", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, dirtyDoc, readFile(t, filepath.Join(dir, "README.md")))
}

func TestConfig_Show(t *testing.T) {
	workspace(t, map[string]string{".markdownlint.yaml": "MD013:\n  line_length: 80\n"})

	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: ")
	assert.Contains(t, stdout, ".markdownlint.yaml")
	assert.Contains(t, stdout, "line_length: 80")
	assert.Contains(t, stdout, "# fixable: ")
	assert.Contains(t, stdout, "MD009")

	stdout, _, err = execute(t, "config", "--format", "json")
	require.NoError(t, err)

	var view struct {
		Source       string         `json:"source"`
		Config       map[string]any `json:"config"`
		FixableRules []string       `json:"fixableRules"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, ".markdownlint.yaml", filepath.Base(view.Source))
	assert.Contains(t, view.FixableRules, "MD047")
	assert.Equal(t, map[string]any{"line_length": float64(80)}, view.Config["MD013"])
}

func TestConfig_ShowDefaults(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: built-in defaults")
	assert.Contains(t, stdout, "MD033: false")
}

func TestConfig_Convert(t *testing.T) {
	dir := workspace(t, map[string]string{
		".markdownlint.json": `{"no-trailing-spaces": false, "line-length": {"line_length": 100}}`,
	})

	stdout, _, err := execute(t, "config", "convert")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Generated by mdfix from ")
	assert.Contains(t, stdout, "MD009: false")
	assert.Contains(t, stdout, "line_length: 100")

	out := filepath.Join(dir, ".markdownlint.yaml")
	_, _, err = execute(t, "config", "convert", ".markdownlint.json", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "MD009: false")

	_, _, err = execute(t, "config", "convert", ".markdownlint.json", "-o", out)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestConfig_Env(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "config", "env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MDFIX_DISABLE")
	assert.Contains(t, stdout, "MDFIX_LINE_LENGTH")
}

func TestRules(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "RULE")
	assert.Contains(t, stdout, "no-trailing-spaces")

	stdout, _, err = execute(t, "rules", "--format", "json", "--tag", "whitespace")
	require.NoError(t, err)

	var infos []struct {
		ID      string   `json:"id"`
		Tags    []string `json:"tags"`
		Fixable bool     `json:"fixable"`
		Enabled bool     `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.NotEmpty(t, infos)

	found := false
	for _, info := range infos {
		assert.Contains(t, info.Tags, "whitespace")
		if info.ID == "MD009" {
			found = true
			assert.True(t, info.Fixable)
			assert.True(t, info.Enabled)
		}
	}
	assert.True(t, found, "MD009 is tagged whitespace")
}

func TestInit(t *testing.T) {
	dir := workspace(t, nil)
	path := filepath.Join(dir, ".markdownlint.yaml")

	_, _, err := execute(t, "init")
	require.NoError(t, err)
	content := readFile(t, path)
	assert.Contains(t, content, "default: true")
	assert.Contains(t, content, "MD033: false")

	_, _, err = execute(t, "init")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = execute(t, "init", "--force", "--full")
	require.NoError(t, err)
	content = readFile(t, path)
	assert.Contains(t, content, "# no-trailing-spaces: ")
	assert.Contains(t, content, "MD009: true")

	_, _, err = execute(t, "init", "--format", "json")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, ".markdownlint.json"))), &doc))
	assert.Equal(t, true, doc["default"])
	assert.Equal(t, false, doc["MD041"])

	// The generated file is itself a loadable configuration.
	_, _, err = execute(t, "--config", path, "config")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", stdout)

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version=1.2.3")
	assert.Contains(t, stdout, "commit=abc123")
}
