package mdlines

import "strings"

// HeadingStyle is the syntax used to write a heading.
type HeadingStyle int

// Heading styles.
const (
	StyleATX HeadingStyle = iota + 1
	StyleATXClosed
	StyleSetext
)

// String returns the markdownlint name of the style.
func (s HeadingStyle) String() string {
	switch s {
	case StyleATX:
		return "atx"
	case StyleATXClosed:
		return "atx_closed"
	case StyleSetext:
		return "setext"
	default:
		return "unknown"
	}
}

const maxHeadingLevel = 6

// Heading is a heading found on a line.
type Heading struct {
	// Index is the 0-based line of the heading text.
	Index int

	// Level is 1 through 6.
	Level int

	// Text is the heading content without markers.
	Text string

	Style HeadingStyle

	// Indent is the number of leading spaces before the first marker.
	Indent int
}

// ParseATX parses line as an ATX heading ("# Title", "## Title ##").
// Up to three spaces of indentation are allowed, the marker must be followed
// by whitespace or the end of the line, and a closing sequence is recognized
// only when separated from the text by whitespace.
func ParseATX(line string) (Heading, bool) {
	indent := LeadingSpaces(line)
	if indent > 3 {
		return Heading{}, false
	}

	rest := line[indent:]
	level := countPrefix(rest, '#')
	if level == 0 || level > maxHeadingLevel {
		return Heading{}, false
	}

	after := rest[level:]
	if after != "" && !isSpaceOrTab(after[0]) {
		return Heading{}, false
	}

	text := strings.TrimSpace(after)
	style := StyleATX

	if stripped := strings.TrimRight(text, "#"); len(stripped) < len(text) {
		switch {
		case stripped == "":
			text = ""
			style = StyleATXClosed
		case isSpaceOrTab(stripped[len(stripped)-1]):
			text = strings.TrimSpace(stripped)
			style = StyleATXClosed
		}
	}

	return Heading{Level: level, Text: text, Style: style, Indent: indent}, true
}

// LooksLikeATX reports whether line starts with 1-6 '#' after at most three
// spaces, whether or not a space follows. It finds headings that are missing
// the space after the marker.
func LooksLikeATX(line string) bool {
	indent := LeadingSpaces(line)
	if indent > 3 {
		return false
	}
	level := countPrefix(line[indent:], '#')
	return level > 0 && level <= maxHeadingLevel
}

// SetextLevel returns 1 for an "===" underline, 2 for a "---" underline, and 0
// for anything else.
func SetextLevel(line string) int {
	indent := LeadingSpaces(line)
	if indent > 3 {
		return 0
	}

	trimmed := strings.TrimRight(line[indent:], " \t")
	if trimmed == "" {
		return 0
	}

	char := trimmed[0]
	if char != '=' && char != '-' {
		return 0
	}
	if countPrefix(trimmed, char) != len(trimmed) {
		return 0
	}

	if char == '=' {
		return 1
	}
	return 2
}

// Headings returns every ATX and setext heading outside code and front matter,
// in document order.
func Headings(lines []string, layout *Layout) []Heading {
	var headings []Heading

	for idx := 0; idx < len(lines); idx++ {
		if !layout.IsProse(idx) {
			continue
		}

		line := lines[idx]
		if heading, ok := ParseATX(line); ok {
			heading.Index = idx
			headings = append(headings, heading)
			continue
		}

		if level := setextAt(lines, layout, idx); level > 0 {
			headings = append(headings, Heading{
				Index:  idx,
				Level:  level,
				Text:   strings.TrimSpace(line),
				Style:  StyleSetext,
				Indent: LeadingSpaces(line),
			})
			idx++
		}
	}

	return headings
}

// setextAt returns the setext level when the line at idx is a single-line
// paragraph underlined on the next line, or 0.
func setextAt(lines []string, layout *Layout, idx int) int {
	if idx+1 >= len(lines) || !layout.IsProse(idx+1) {
		return 0
	}

	line := lines[idx]
	if IsBlank(line) || LeadingSpaces(line) > 3 {
		return 0
	}
	if IsThematicBreak(line) || IsBlockquote(line) || IsTableRow(line) {
		return 0
	}
	if _, ok := ParseListItem(line); ok {
		return 0
	}
	if idx > 0 && layout.IsProse(idx-1) && !closesBlock(lines[idx-1]) {
		return 0
	}

	return SetextLevel(lines[idx+1])
}

// closesBlock reports whether a paragraph cannot continue past line: it is
// blank, an ATX heading, a setext underline, or a thematic break.
func closesBlock(line string) bool {
	if IsBlank(line) || SetextLevel(line) > 0 || IsThematicBreak(line) {
		return true
	}
	_, ok := ParseATX(line)
	return ok
}

func countPrefix(s string, char byte) int {
	n := 0
	for n < len(s) && s[n] == char {
		n++
	}
	return n
}

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}
