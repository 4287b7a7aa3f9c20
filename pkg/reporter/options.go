package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mdfix/pkg/analysis"
	"github.com/yaklabco/mdfix/pkg/lint"
)

// bufWriterSize is the size of the output buffer.
const bufWriterSize = 64 * 1024

// Options configures a reporter.
type Options struct {
	// Writer receives the report. Defaults to os.Stdout.
	Writer io.Writer

	Format Format

	// Color is "auto", "always", or "never".
	Color string

	// ShowContext prints the source line under each violation.
	ShowContext bool

	// ShowSummary prints closing totals.
	ShowSummary bool

	// Compact disables JSON indentation.
	Compact bool

	// Fix marks the result as coming from a fix run.
	Fix bool

	// DryRun marks a fix run that wrote nothing.
	DryRun bool

	// Registry supplies rule metadata to SARIF output. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry

	// SortBy orders the summary tables.
	SortBy analysis.SortField

	// Version is recorded in machine-readable output.
	Version string
}

// DefaultOptions returns text output to stdout with context and summary.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}
