package mdlines

// Layout is the per-line classification of one document.
type Layout struct {
	// Code reports, per line, whether it is part of a code block.
	Code []bool

	// FrontMatterEnd is the index of the closing front matter delimiter, or
	// -1 when the document has no front matter.
	FrontMatterEnd int
}

// NewLayout classifies every line of a document.
func NewLayout(lines []string) *Layout {
	return &Layout{
		Code:           Classify(lines),
		FrontMatterEnd: FrontMatterEnd(lines),
	}
}

// InCode reports whether line index is part of a code block.
func (l *Layout) InCode(index int) bool {
	return index >= 0 && index < len(l.Code) && l.Code[index]
}

// InFrontMatter reports whether line index belongs to the front matter,
// delimiters included.
func (l *Layout) InFrontMatter(index int) bool {
	return l.FrontMatterEnd >= 0 && index >= 0 && index <= l.FrontMatterEnd
}

// IsProse reports whether line index is ordinary Markdown: inside the document
// and neither code nor front matter.
func (l *Layout) IsProse(index int) bool {
	return index >= 0 && index < len(l.Code) && !l.Code[index] && !l.InFrontMatter(index)
}

// ContentStart returns the index of the first line after the front matter.
func (l *Layout) ContentStart() int {
	return l.FrontMatterEnd + 1
}
