package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are the text styles used for command output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Keyword lipgloss.Style
}

// NewStyles builds styles for w. With color disabled every style renders
// plain text.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Title:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Header:  r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("229")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Keyword: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
