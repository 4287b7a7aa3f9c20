package runner

import (
	"github.com/yaklabco/mdfix/pkg/fix"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// FileOutcome is what happened to one file.
type FileOutcome struct {
	// Path is the absolute path of the file.
	Path string

	// Display is Path relative to the working directory.
	Display string

	// Violations are the issues found, or in fix mode the issues left.
	Violations []lint.Violation

	// Lines is the document the violations refer to: the file as read, or
	// the fixed content in fix mode.
	Lines []string

	// Fix is the fix run result. Nil in lint mode.
	Fix *lint.FixResult

	// Diff shows the fix as a unified diff when content changed.
	Diff *fix.Diff

	// Written reports whether fixed content was saved.
	Written bool

	// Skipped reports that the file's configuration ignores it.
	Skipped bool

	// ConfigSource is the configuration file applied, or "" for defaults.
	ConfigSource string

	// Warnings are configuration problems that did not stop processing.
	Warnings []string

	// Error is set when the file could not be processed. A failing rule sets
	// it too while the other rules' violations are still reported.
	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	FilesWithIssues int

	// FilesModified counts files whose content the fixers changed, written
	// or not.
	FilesModified int
	FilesWritten  int

	// IssuesBefore counts violations before fixing. In lint mode it equals
	// Issues.
	IssuesBefore int
	Issues       int

	// EstimatedFixes sums the advisory per-file fix estimates.
	EstimatedFixes int

	// IssuesByRule counts the reported violations per rule ID.
	IssuesByRule map[string]int
}

// Result is the outcome of a run, with files in path order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasIssues reports whether any violations were reported.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.Issues > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		if len(outcome.Violations) == 0 && outcome.Fix == nil {
			return
		}
	default:
		r.Stats.FilesProcessed++
	}

	if n := len(outcome.Violations); n > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.Issues += n
	}
	for _, v := range outcome.Violations {
		r.Stats.IssuesByRule[v.RuleID]++
	}

	if outcome.Fix == nil {
		r.Stats.IssuesBefore += len(outcome.Violations)
		return
	}

	r.Stats.IssuesBefore += len(outcome.Fix.Before)
	r.Stats.EstimatedFixes += outcome.Fix.EstimatedFixes
	if outcome.Fix.Changed {
		r.Stats.FilesModified++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
}
