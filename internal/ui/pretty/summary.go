package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdfix/pkg/runner"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// LintSummary renders the closing line of a lint run.
func (s *Styles) LintSummary(stats runner.Stats) string {
	files := plural(stats.FilesProcessed, "file", "files")
	if stats.Issues == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("✓ No issues found") + s.Dim.Render(" in "+files) + "\n"
	}

	parts := []string{s.Failure.Render(fmt.Sprintf("✗ Found %s", plural(stats.Issues, "issue", "issues")))}
	parts = append(parts, s.Dim.Render(fmt.Sprintf("in %s of %s", plural(stats.FilesWithIssues, "file", "files"), files)))
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "file failed", "files failed")))
	}
	return strings.Join(parts, " ") + "\n"
}

// FixSummary renders the closing lines of a fix run: counts before and after
// and the advisory fix estimate.
func (s *Styles) FixSummary(stats runner.Stats, dryRun bool) string {
	var b strings.Builder

	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	modified := stats.FilesModified
	if !dryRun {
		modified = stats.FilesWritten
	}

	if stats.FilesModified == 0 {
		b.WriteString(s.Success.Render("✓ Nothing to fix"))
	} else {
		b.WriteString(s.Success.Render(fmt.Sprintf("✓ %s %s", verb, plural(modified, "file", "files"))))
		b.WriteString(s.Dim.Render(fmt.Sprintf(" (about %s)", plural(stats.EstimatedFixes, "fix", "fixes"))))
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "  %s %d  %s %d\n",
		s.Dim.Render("issues before:"), stats.IssuesBefore,
		s.Dim.Render("remaining:"), stats.Issues)

	if stats.FilesErrored > 0 {
		b.WriteString("  " + s.Error.Render(plural(stats.FilesErrored, "file failed", "files failed")) + "\n")
	}
	return b.String()
}
