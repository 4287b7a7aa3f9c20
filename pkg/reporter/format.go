package reporter

import "fmt"

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatDiff    Format = "diff"
	FormatSARIF   Format = "sarif"
	FormatSummary Format = "summary"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatDiff, FormatSARIF, FormatSummary}
}

// ParseFormat parses a --format value. The empty string means text.
func ParseFormat(value string) (Format, error) {
	if value == "" {
		return FormatText, nil
	}
	for _, f := range Formats() {
		if string(f) == value {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff, sarif, summary", value)
}
