// Package fix renders the changes made by a fix run as unified diffs.
package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// OpKind is the role of a line in a diff.
type OpKind int

const (
	// OpEqual marks a line present in both versions.
	OpEqual OpKind = iota
	// OpDelete marks a line only in the original.
	OpDelete
	// OpInsert marks a line only in the fixed version.
	OpInsert
)

// Line is one line of a hunk.
type Line struct {
	Kind OpKind
	Text string
}

// Hunk is a group of nearby changes with surrounding context. Starts are
// 1-based line numbers.
type Hunk struct {
	BeforeStart, BeforeCount int
	AfterStart, AfterCount   int
	Lines                    []Line
}

// Diff is a line diff between a document and its fixed version.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// GenerateDiff compares two versions of a document held as lines. It returns
// nil when they are equal.
func GenerateDiff(path string, before, after []string) *Diff {
	ops := diffLines(before, after)

	diff := &Diff{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case OpInsert:
			diff.Additions++
		case OpDelete:
			diff.Deletions++
		}
	}
	if diff.Additions == 0 && diff.Deletions == 0 {
		return nil
	}

	diff.Hunks = hunks(ops)
	return diff
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}

	name := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", span(h.BeforeStart, h.BeforeCount), span(h.AfterStart, h.AfterCount))
		for _, line := range h.Lines {
			b.WriteByte(" -+"[line.Kind])
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// span formats a hunk range the way diff(1) does: an empty range names the
// line before it.
func span(start, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", start-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// diffLines returns an edit script turning before into after. Common leading
// and trailing lines are matched directly; the middle uses a longest common
// subsequence table.
func diffLines(before, after []string) []Line {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(before)+len(after))
	for _, text := range before[:prefix] {
		ops = append(ops, Line{Kind: OpEqual, Text: text})
	}
	ops = append(ops, lcsScript(before[prefix:len(before)-suffix], after[prefix:len(after)-suffix])...)
	for _, text := range before[len(before)-suffix:] {
		ops = append(ops, Line{Kind: OpEqual, Text: text})
	}
	return ops
}

func lcsScript(a, b []string) []Line {
	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []Line
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Kind: OpEqual, Text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, Line{Kind: OpDelete, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Kind: OpInsert, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Kind: OpDelete, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Kind: OpInsert, Text: b[j]})
	}
	return ops
}

// hunks groups an edit script into hunks, merging changes separated by at
// most twice the context size.
func hunks(ops []Line) []Hunk {
	var result []Hunk

	beforeLine, afterLine := 1, 1
	var current *Hunk
	lastChange := -1

	for idx, op := range ops {
		if op.Kind != OpEqual {
			if current == nil || idx-lastChange-1 > 2*contextLines {
				if current != nil {
					closeHunk(current, ops, lastChange)
					result = append(result, *current)
				}
				start := max(idx-contextLines, 0)
				current = &Hunk{
					BeforeStart: beforeLine - (idx - start),
					AfterStart:  afterLine - (idx - start),
				}
				for _, ctx := range ops[start:idx] {
					current.addLine(ctx)
				}
			} else {
				for _, ctx := range ops[lastChange+1 : idx] {
					current.addLine(ctx)
				}
			}
			current.addLine(op)
			lastChange = idx
		}

		if op.Kind != OpInsert {
			beforeLine++
		}
		if op.Kind != OpDelete {
			afterLine++
		}
	}

	if current != nil {
		closeHunk(current, ops, lastChange)
		result = append(result, *current)
	}
	return result
}

func closeHunk(h *Hunk, ops []Line, lastChange int) {
	end := min(lastChange+1+contextLines, len(ops))
	for _, ctx := range ops[lastChange+1 : end] {
		h.addLine(ctx)
	}
}

func (h *Hunk) addLine(line Line) {
	h.Lines = append(h.Lines, line)
	if line.Kind != OpInsert {
		h.BeforeCount++
	}
	if line.Kind != OpDelete {
		h.AfterCount++
	}
}
