package mdlines

import "strings"

// Span is a half-open byte range within a line.
type Span struct {
	Start int
	End   int
}

// CodeSpans returns the byte ranges of inline code spans in line, backtick
// delimiters included. A span opens with a run of N backticks and closes at
// the next run of exactly N backticks; an unmatched run is literal text.
func CodeSpans(line string) []Span {
	if !strings.Contains(line, "`") {
		return nil
	}

	runs := backtickRuns(line)

	// next[length] is where the search for a closer of that length resumes;
	// each run is examined at most once per distinct run length.
	next := make(map[int]int)

	var spans []Span
	for idx := 0; idx < len(runs); idx++ {
		open := runs[idx]

		closer := -1
		for pos := max(next[open.End-open.Start], idx+1); pos < len(runs); pos++ {
			if runs[pos].End-runs[pos].Start == open.End-open.Start {
				closer = pos
				break
			}
		}

		if closer < 0 {
			next[open.End-open.Start] = len(runs)
			continue
		}

		spans = append(spans, Span{Start: open.Start, End: runs[closer].End})
		next[open.End-open.Start] = closer + 1
		idx = closer
	}

	return spans
}

// MaskCodeSpans returns line with every inline code span replaced by spaces.
// The result has the same byte length as line, so offsets found in it apply to
// the original.
func MaskCodeSpans(line string) string {
	spans := CodeSpans(line)
	if len(spans) == 0 {
		return line
	}

	buf := []byte(line)
	for _, span := range spans {
		for idx := span.Start; idx < span.End; idx++ {
			buf[idx] = ' '
		}
	}

	return string(buf)
}

// InSpans reports whether offset falls inside any of spans.
func InSpans(spans []Span, offset int) bool {
	for _, span := range spans {
		if offset >= span.Start && offset < span.End {
			return true
		}
	}
	return false
}

func backtickRuns(line string) []Span {
	var runs []Span

	for idx := 0; idx < len(line); {
		if line[idx] != '`' {
			idx++
			continue
		}

		start := idx
		for idx < len(line) && line[idx] == '`' {
			idx++
		}
		runs = append(runs, Span{Start: start, End: idx})
	}

	return runs
}
