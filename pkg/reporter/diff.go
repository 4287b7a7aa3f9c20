package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/mdfix/internal/ui/pretty"
	"github.com/yaklabco/mdfix/pkg/fix"
	"github.com/yaklabco/mdfix/pkg/runner"
)

// DiffReporter writes the changes of a fix run as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffReporter creates a DiffReporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	files, additions, deletions := 0, 0, 0
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(bw, "%s: %s\n", r.styles.FilePath.Render(file.Display),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if file.Diff == nil {
			continue
		}

		files++
		additions += file.Diff.Additions
		deletions += file.Diff.Deletions
		r.writeDiff(bw, file.Diff)
	}

	if files > 0 && r.opts.ShowSummary {
		fmt.Fprintf(bw, "%s, %s, %s\n",
			plural(files, "file changed", "files changed"),
			r.styles.DiffAdd.Render(plural(additions, "insertion(+)", "insertions(+)")),
			r.styles.DiffRemove.Render(plural(deletions, "deletion(-)", "deletions(-)")))
	}

	return files, nil
}

func (r *DiffReporter) writeDiff(bw *bufio.Writer, diff *fix.Diff) {
	name := strings.TrimPrefix(diff.Path, "/")
	fmt.Fprintln(bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", name, name)))

	for _, line := range strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n") {
		style := r.styles.DiffContext
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			style = r.styles.DiffHeader
		case strings.HasPrefix(line, "@@"):
			style = r.styles.DiffHunk
		case strings.HasPrefix(line, "+"):
			style = r.styles.DiffAdd
		case strings.HasPrefix(line, "-"):
			style = r.styles.DiffRemove
		}
		fmt.Fprintln(bw, style.Render(line))
	}
	fmt.Fprintln(bw)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
