// Package mdlines classifies raw Markdown lines without building a syntax tree.
//
// Rules operate on documents as []string. This package answers the questions
// they share: is a line inside a fenced or indented code block, where does the
// front matter end, is a line an ATX heading, a list item, a thematic break,
// or part of a table. Every answer for a line depends only on the lines up to
// and including it (plus the following line for setext underlines), never on
// the order in which lines are queried.
package mdlines

import "strings"

// minFenceLength is the number of backticks or tildes that open a fence.
const minFenceLength = 3

// indentedCodePrefix marks an indented code line.
const indentedCodePrefix = "    "

// FenceChar returns '`' or '~' when line is a fence delimiter, or 0 otherwise.
// A fence delimiter is a line that, once trimmed, starts with three or more
// backticks or three or more tildes.
func FenceChar(line string) byte {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, strings.Repeat("`", minFenceLength)):
		return '`'
	case strings.HasPrefix(trimmed, strings.Repeat("~", minFenceLength)):
		return '~'
	default:
		return 0
	}
}

// IsFence reports whether line is a fence delimiter.
func IsFence(line string) bool {
	return FenceChar(line) != 0
}

// IsIndentedCode reports whether line starts with four or more spaces.
func IsIndentedCode(line string) bool {
	return strings.HasPrefix(line, indentedCodePrefix)
}

// IsCodeBlock reports whether the line at index lies in a code block.
//
// A line is in a code block when it is indented code, when it is itself a
// fence delimiter, or when a fence opened on an earlier line is still open. A
// fence is closed only by a delimiter using the same fence character.
// Out-of-range indexes report false.
//
// IsCodeBlock rescans the document prefix on every call. Use Classify when
// every line is needed.
func IsCodeBlock(lines []string, index int) bool {
	if index < 0 || index >= len(lines) {
		return false
	}
	if IsIndentedCode(lines[index]) {
		return true
	}

	var open byte
	for _, line := range lines[:index] {
		open = nextFenceState(open, FenceChar(line))
	}

	return open != 0 || IsFence(lines[index])
}

// Classify returns, for every line, the value IsCodeBlock would report,
// computed in a single forward pass.
func Classify(lines []string) []bool {
	code := make([]bool, len(lines))

	var open byte
	for idx, line := range lines {
		fence := FenceChar(line)
		code[idx] = open != 0 || fence != 0 || IsIndentedCode(line)
		open = nextFenceState(open, fence)
	}

	return code
}

// FencedBlock is a fenced code block located by FencedBlocks.
type FencedBlock struct {
	// Open is the 0-based index of the opening delimiter.
	Open int

	// Close is the 0-based index of the closing delimiter, or -1 when the
	// fence runs to the end of the document.
	Close int

	// Char is the fence character, '`' or '~'.
	Char byte
}

// FencedBlocks returns the fenced code blocks of a document in order, using
// the same open/close semantics as IsCodeBlock.
func FencedBlocks(lines []string) []FencedBlock {
	var blocks []FencedBlock

	current := -1
	for idx, line := range lines {
		fence := FenceChar(line)
		if fence == 0 {
			continue
		}

		switch {
		case current < 0:
			blocks = append(blocks, FencedBlock{Open: idx, Close: -1, Char: fence})
			current = len(blocks) - 1
		case blocks[current].Char == fence:
			blocks[current].Close = idx
			current = -1
		}
	}

	return blocks
}

// FenceInfo returns the info string that follows the opening fence characters
// of a delimiter line, trimmed of whitespace.
func FenceInfo(line string) string {
	trimmed := strings.TrimSpace(line)
	fence := FenceChar(trimmed)
	if fence == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimLeft(trimmed, string(fence)))
}

func nextFenceState(open, fence byte) byte {
	switch {
	case fence == 0:
		return open
	case open == 0:
		return fence
	case open == fence:
		return 0
	default:
		return open
	}
}
