package mdlines

import (
	"strconv"
	"strings"
)

// maxOrderedDigits bounds ordered list numbers the way CommonMark does.
const maxOrderedDigits = 9

// LeadingSpaces counts the space characters at the start of line.
func LeadingSpaces(line string) int {
	return countPrefix(line, ' ')
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsBlockquote reports whether line starts a blockquote ("> text").
func IsBlockquote(line string) bool {
	indent := LeadingSpaces(line)
	return indent <= 3 && indent < len(line) && line[indent] == '>'
}

// IsThematicBreak reports whether line is a thematic break: three or more of
// the same '*', '-' or '_' character, optionally separated by whitespace.
func IsThematicBreak(line string) bool {
	indent := LeadingSpaces(line)
	if indent > 3 {
		return false
	}

	trimmed := strings.TrimRight(line[indent:], " \t")
	if trimmed == "" {
		return false
	}

	char := trimmed[0]
	if char != '*' && char != '-' && char != '_' {
		return false
	}

	count := 0
	for idx := range len(trimmed) {
		switch trimmed[idx] {
		case char:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}

	return count >= 3
}

// ListItem describes the marker of a list item line.
type ListItem struct {
	// Indent is the number of spaces before the marker.
	Indent int

	// Marker is the marker text: "*", "-", "+", or digits plus '.' or ')'.
	Marker string

	Ordered bool

	// Number is the ordered item number; zero for bullets.
	Number int

	// Spacing is the number of whitespace bytes between the marker and the
	// content.
	Spacing int

	// Content is the text after the marker and its spacing.
	Content string
}

// ContentOffset returns the byte offset of the item content within its line.
func (li ListItem) ContentOffset() int {
	return li.Indent + len(li.Marker) + li.Spacing
}

// ParseListItem parses line as a bullet or ordered list item. Thematic breaks,
// emphasis at line start, and numbers without a following space are rejected.
func ParseListItem(line string) (ListItem, bool) {
	indent := LeadingSpaces(line)
	rest := line[indent:]
	if rest == "" || IsThematicBreak(line) {
		return ListItem{}, false
	}

	item := ListItem{Indent: indent}

	switch rest[0] {
	case '*', '-', '+':
		item.Marker = rest[:1]
	default:
		digits := 0
		for digits < len(rest) && digits < maxOrderedDigits+1 && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits > maxOrderedDigits || digits >= len(rest) {
			return ListItem{}, false
		}
		if rest[digits] != '.' && rest[digits] != ')' {
			return ListItem{}, false
		}

		number, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return ListItem{}, false
		}

		item.Marker = rest[:digits+1]
		item.Ordered = true
		item.Number = number
	}

	after := rest[len(item.Marker):]
	if after != "" && !isSpaceOrTab(after[0]) {
		return ListItem{}, false
	}

	content := strings.TrimLeft(after, " \t")
	item.Spacing = len(after) - len(content)
	item.Content = content

	return item, true
}

// Delimiter returns the '.' or ')' that ends an ordered marker, or 0.
func (li ListItem) Delimiter() byte {
	if !li.Ordered {
		return 0
	}
	return li.Marker[len(li.Marker)-1]
}

// IsTableRow reports whether line looks like a pipe table row.
func IsTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Contains(trimmed, "|")
}

// IsTableDelimiter reports whether line is a table delimiter row such as
// "| --- | :---: |".
func IsTableDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") {
		return false
	}

	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	if trimmed == "" {
		return false
	}

	for _, cell := range strings.Split(trimmed, "|") {
		cell = strings.TrimSpace(cell)
		cell = strings.TrimPrefix(cell, ":")
		cell = strings.TrimSuffix(cell, ":")
		if cell == "" || countPrefix(cell, '-') != len(cell) {
			return false
		}
	}

	return true
}

// Block is an inclusive range of line indexes.
type Block struct {
	Start int
	End   int
}

// Tables returns the line ranges of pipe tables outside code and front matter.
// A table starts with a header row followed by a delimiter row and runs until
// the first line that is not a table row.
func Tables(lines []string, layout *Layout) []Block {
	var tables []Block

	for idx := 0; idx+1 < len(lines); idx++ {
		if !layout.IsProse(idx) || !layout.IsProse(idx+1) {
			continue
		}
		if !IsTableRow(lines[idx]) || !IsTableDelimiter(lines[idx+1]) {
			continue
		}

		end := idx + 1
		for end+1 < len(lines) && layout.IsProse(end+1) && IsTableRow(lines[end+1]) {
			end++
		}

		tables = append(tables, Block{Start: idx, End: end})
		idx = end
	}

	return tables
}
