package mdlines_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mdfix/pkg/mdlines"
)

func FuzzClassify(f *testing.F) {
	f.Add("```\ncode\n```\ntext")
	f.Add("~~~\n```\n~~~")
	f.Add("    indented\n---\ntitle: x\n---")
	f.Add("")

	f.Fuzz(func(t *testing.T, content string) {
		lines := strings.Split(content, "\n")
		classified := mdlines.Classify(lines)

		if len(classified) != len(lines) {
			t.Fatalf("Classify returned %d entries for %d lines", len(classified), len(lines))
		}
		for idx := range lines {
			if classified[idx] != mdlines.IsCodeBlock(lines, idx) {
				t.Fatalf("line %d: Classify=%v IsCodeBlock=%v", idx, classified[idx], !classified[idx])
			}
		}

		// Appending lines never changes the answer for an earlier line.
		extended := append(append([]string{}, lines...), "```", "tail")
		for idx, code := range mdlines.Classify(extended)[:len(lines)] {
			if code != classified[idx] {
				t.Fatalf("line %d changed after appending lines", idx)
			}
		}

		_ = mdlines.Headings(lines, mdlines.NewLayout(lines))
		for _, line := range lines {
			_ = mdlines.MaskCodeSpans(line)
			_, _ = mdlines.ParseListItem(line)
		}
	})
}
