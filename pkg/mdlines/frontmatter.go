package mdlines

import "strings"

// Front matter delimiters.
const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
	yamlEnd       = "..."
)

// FrontMatterEnd returns the index of the line that closes a front matter
// block opened on the first line, or -1 when the document has none.
// A document whose opening delimiter is never closed has no front matter.
func FrontMatterEnd(lines []string) int {
	if len(lines) == 0 {
		return -1
	}

	open := strings.TrimRight(lines[0], " \t")
	if open != yamlDelimiter && open != tomlDelimiter {
		return -1
	}

	for idx := 1; idx < len(lines); idx++ {
		closing := strings.TrimRight(lines[idx], " \t")
		if closing == open || (open == yamlDelimiter && closing == yamlEnd) {
			return idx
		}
	}

	return -1
}

// FrontMatter returns the lines between the delimiters of the document's
// front matter, or nil when there is none.
func FrontMatter(lines []string) []string {
	end := FrontMatterEnd(lines)
	if end < 0 {
		return nil
	}
	return lines[1:end]
}
