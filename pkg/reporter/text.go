package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdfix/internal/ui/pretty"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// TextReporter writes violations grouped by file for people to read.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
}

// NewTextReporter creates a TextReporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		width:  pretty.Width(opts.Writer),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Dim.Render("No Markdown files found."))
		}
		return 0, nil
	}

	total := 0
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(bw, "%s: %s\n", r.styles.FilePath.Render(file.Display),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		}
		if len(file.Violations) == 0 {
			continue
		}

		fmt.Fprintln(bw, r.styles.FileHeader(file.Display, len(file.Violations)))
		for _, v := range file.Violations {
			fmt.Fprint(bw, r.styles.Violation(v))
			if r.opts.ShowContext {
				fmt.Fprint(bw, r.styles.SourceContext(sourceLine(file.Lines, v.LineNumber), v, r.width))
			}
			total++
		}
		fmt.Fprintln(bw)
	}

	if r.opts.ShowSummary {
		if r.opts.Fix {
			fmt.Fprint(bw, r.styles.FixSummary(result.Stats, r.opts.DryRun))
		} else {
			fmt.Fprint(bw, r.styles.LintSummary(result.Stats))
		}
	}

	return total, nil
}
