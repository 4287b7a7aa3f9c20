package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// jsonSchemaVersion changes whenever the JSON layout does.
const jsonSchemaVersion = "1"

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	SchemaVersion string     `json:"schemaVersion"`
	Tool          string     `json:"tool"`
	Version       string     `json:"version,omitempty"`
	Files         []JSONFile `json:"files"`
	Summary       JSONTotals `json:"summary"`
}

// JSONFile is one file's outcome.
type JSONFile struct {
	Path       string           `json:"path"`
	Config     string           `json:"config,omitempty"`
	Violations []lint.Violation `json:"violations"`
	Fix        *JSONFix         `json:"fix,omitempty"`
	Skipped    bool             `json:"skipped,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// JSONFix describes a fix run on one file.
type JSONFix struct {
	RulesApplied   []string `json:"rulesApplied"`
	IssuesBefore   int      `json:"issuesBefore"`
	IssuesAfter    int      `json:"issuesAfter"`
	EstimatedFixes int      `json:"estimatedFixes"`
	Changed        bool     `json:"changed"`
	Written        bool     `json:"written"`
}

// JSONTotals aggregates the run.
type JSONTotals struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesErrored    int            `json:"filesErrored"`
	FilesModified   int            `json:"filesModified"`
	FilesWritten    int            `json:"filesWritten"`
	IssuesBefore    int            `json:"issuesBefore"`
	Issues          int            `json:"issues"`
	EstimatedFixes  int            `json:"estimatedFixes"`
	ByRule          map[string]int `json:"byRule"`
}

// JSONReporter writes results as one JSON document.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a JSONReporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildJSON(result, r.opts.Version)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Issues, nil
}

// BuildJSON converts a run result to its JSON form.
func BuildJSON(result *runner.Result, version string) *JSONOutput {
	output := &JSONOutput{
		SchemaVersion: jsonSchemaVersion,
		Tool:          "mdfix",
		Version:       version,
		Files:         []JSONFile{},
		Summary:       JSONTotals{ByRule: map[string]int{}},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := JSONFile{
			Path:       file.Display,
			Config:     file.ConfigSource,
			Violations: file.Violations,
			Skipped:    file.Skipped,
			Warnings:   file.Warnings,
		}
		if entry.Violations == nil {
			entry.Violations = []lint.Violation{}
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		if file.Fix != nil {
			applied := file.Fix.RulesApplied
			if applied == nil {
				applied = []string{}
			}
			entry.Fix = &JSONFix{
				RulesApplied:   applied,
				IssuesBefore:   len(file.Fix.Before),
				IssuesAfter:    len(file.Fix.After),
				EstimatedFixes: file.Fix.EstimatedFixes,
				Changed:        file.Fix.Changed,
				Written:        file.Written,
			}
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONTotals{
		FilesChecked:    stats.FilesProcessed,
		FilesWithIssues: stats.FilesWithIssues,
		FilesSkipped:    stats.FilesSkipped,
		FilesErrored:    stats.FilesErrored,
		FilesModified:   stats.FilesModified,
		FilesWritten:    stats.FilesWritten,
		IssuesBefore:    stats.IssuesBefore,
		Issues:          stats.Issues,
		EstimatedFixes:  stats.EstimatedFixes,
		ByRule:          stats.IssuesByRule,
	}
	if output.Summary.ByRule == nil {
		output.Summary.ByRule = map[string]int{}
	}

	return output
}
