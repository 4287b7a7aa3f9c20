// Package reporter writes run results as text, JSON, unified diffs, SARIF,
// or per-rule summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// Reporter writes a run result.
type Reporter interface {
	// Report writes result and returns the number of issues it reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Registry == nil {
		opts.Registry = lint.DefaultRegistry
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

func sourceLine(lines []string, lineNumber int) string {
	if lineNumber < 1 || lineNumber > len(lines) {
		return ""
	}
	return lines[lineNumber-1]
}
