// Package pretty renders mdfix output for terminals with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is assumed when the output is not a terminal.
const DefaultWidth = 100

// Styles holds the lipgloss styles used across mdfix output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Title   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Fixable lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is off.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Error: plain, Warning: plain,
			FilePath: plain, Location: plain, RuleID: plain, Message: plain, SourceLine: plain, Caret: plain,
			DiffHeader: plain, DiffHunk: plain, DiffAdd: plain, DiffRemove: plain, DiffContext: plain,
			Title: plain, Success: plain, Failure: plain, Fixable: plain,
			Dim: plain, Bold: plain,
		}
	}

	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	return &Styles{
		Error:   fg("9").Bold(true),
		Warning: fg("11").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true).Underline(true),
		Location:   fg("8"),
		RuleID:     fg("13"),
		Message:    lipgloss.NewStyle(),
		SourceLine: fg("7"),
		Caret:      fg("9"),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    fg("14"),
		DiffAdd:     fg("10"),
		DiffRemove:  fg("9"),
		DiffContext: fg("8"),

		Title:   lipgloss.NewStyle().Bold(true),
		Success: fg("10").Bold(true),
		Failure: fg("9").Bold(true),
		Fixable: fg("10"),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// IsColorEnabled resolves a --color mode. "auto" enables color only for
// terminals and honors NO_COLOR.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Width returns the terminal width of w, or DefaultWidth.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
