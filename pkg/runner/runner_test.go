package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfix/internal/configloader"
	"github.com/yaklabco/mdfix/pkg/fsutil"
	"github.com/yaklabco/mdfix/pkg/lint"
	_ "github.com/yaklabco/mdfix/pkg/lint/rules" // Register rules
	"github.com/yaklabco/mdfix/pkg/runner"
)

const (
	cleanDoc = "# Title\n\nSome text.\n"
	dirtyDoc = "# Title\n\nSome text. \n"
)

func newRunner() *runner.Runner {
	return runner.New(lint.NewLinter(lint.DefaultRegistry))
}

func baseOptions(root string, mode runner.Mode) runner.Options {
	return runner.Options{
		WorkingDir: root,
		Mode:       mode,
		Jobs:       2,
		Configs: configloader.NewLoader(configloader.LoadOptions{
			Root:   root,
			Getenv: func(string) string { return "" },
		}),
	}
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_Lint(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.md":      cleanDoc,
		"b.md":      dirtyDoc,
		"docs/c.md": dirtyDoc,
	})

	result, err := newRunner().Run(context.Background(), baseOptions(root, runner.ModeLint))
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, "a.md", result.Files[0].Display)
	assert.Equal(t, "b.md", result.Files[1].Display)
	assert.Equal(t, filepath.Join("docs", "c.md"), result.Files[2].Display)

	assert.Empty(t, result.Files[0].Violations)
	require.Len(t, result.Files[1].Violations, 1)
	assert.Equal(t, "MD009", result.Files[1].Violations[0].RuleID)
	assert.Equal(t, 3, result.Files[1].Violations[0].LineNumber)

	stats := result.Stats
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 2, stats.FilesWithIssues)
	assert.Equal(t, 2, stats.Issues)
	assert.Equal(t, 2, stats.IssuesBefore)
	assert.Equal(t, map[string]int{"MD009": 2}, stats.IssuesByRule)
	assert.True(t, result.HasIssues())
	assert.False(t, result.HasErrors())

	assert.Equal(t, dirtyDoc, readString(t, filepath.Join(root, "b.md")), "lint never writes")
}

func TestRun_FixWrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": cleanDoc, "b.md": dirtyDoc})

	opts := baseOptions(root, runner.ModeFix)
	opts.Write = true
	opts.Backup = true

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, cleanDoc, readString(t, filepath.Join(root, "b.md")))
	assert.Equal(t, dirtyDoc, readString(t, fsutil.BackupPath(filepath.Join(root, "b.md"))))
	assert.NoFileExists(t, fsutil.BackupPath(filepath.Join(root, "a.md")))

	b := result.Files[1]
	assert.True(t, b.Written)
	require.NotNil(t, b.Fix)
	assert.Equal(t, []string{"MD009"}, b.Fix.RulesApplied)
	assert.Len(t, b.Fix.Before, 1)
	assert.Empty(t, b.Violations)
	require.NotNil(t, b.Diff)
	assert.Contains(t, b.Diff.String(), "-Some text. \n+Some text.\n")

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 1, result.Stats.FilesWritten)
	assert.Equal(t, 1, result.Stats.IssuesBefore)
	assert.Equal(t, 0, result.Stats.Issues)
	assert.Equal(t, 1, result.Stats.EstimatedFixes)
}

func TestRun_FixDryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"b.md": dirtyDoc})

	opts := baseOptions(root, runner.ModeFix)
	opts.Write = true
	opts.DryRun = true

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].Written)
	assert.NotNil(t, result.Files[0].Diff)
	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 0, result.Stats.FilesWritten)
	assert.Equal(t, dirtyDoc, readString(t, filepath.Join(root, "b.md")))
}

func TestRun_FixRestrictedRules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"b.md": dirtyDoc})

	opts := baseOptions(root, runner.ModeFix)
	opts.Write = true
	opts.Rules = []string{"MD047"}

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, result.Files[0].Fix.RulesApplied)
	assert.False(t, result.Files[0].Written)
	assert.Equal(t, 1, result.Stats.Issues)
}

func TestRun_ConfigIgnoreAndDisable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".markdownlint.json": `{"no-trailing-spaces": false}`,
		"b.md":               dirtyDoc,
		"skip/c.md":          dirtyDoc,
	})

	cli := baseOptions(root, runner.ModeLint)
	cli.Ignore = []string{"skip/**"}

	result, err := newRunner().Run(context.Background(), cli)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Files[0].Violations)
	assert.Equal(t, filepath.Join(root, ".markdownlint.json"), result.Files[0].ConfigSource)
}

func TestRun_SkipsFilesIgnoredByConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"CHANGELOG.md": dirtyDoc, "b.md": dirtyDoc})

	opts := baseOptions(root, runner.ModeLint)
	opts.Configs = configloader.NewLoader(configloader.LoadOptions{
		Root:   root,
		Getenv: func(key string) string { return map[string]string{configloader.EnvIgnore: "CHANGELOG.md"}[key] },
	})

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.True(t, result.Files[0].Skipped)
	assert.Equal(t, 1, result.Stats.FilesSkipped)
	assert.Equal(t, 1, result.Stats.Issues)
}

func TestRun_MissingPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := baseOptions(root, runner.ModeLint)
	opts.Paths = []string{"nope.md"}

	_, err := newRunner().Run(context.Background(), opts)
	require.ErrorIs(t, err, runner.ErrFileNotFound)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": cleanDoc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, baseOptions(root, runner.ModeLint))
	require.ErrorIs(t, err, context.Canceled)
}
