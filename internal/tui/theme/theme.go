// Package theme holds the colors and styles shared by the browser panes.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("39")  // blue
	Subtle  = lipgloss.Color("244") // mid gray
	Good    = lipgloss.Color("35")  // green
	Bad     = lipgloss.Color("160") // red
	Caution = lipgloss.Color("214") // amber
	Frame   = lipgloss.Color("237")
	Focus   = lipgloss.Color("230")
)

var (
	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Frame)

	FocusedPane = Pane.BorderForeground(Accent)

	Heading = lipgloss.NewStyle().Foreground(Accent).Bold(true).Padding(0, 1)

	Dim      = lipgloss.NewStyle().Foreground(Subtle)
	Danger   = lipgloss.NewStyle().Foreground(Bad)
	Ok       = lipgloss.NewStyle().Foreground(Good)
	Alert    = lipgloss.NewStyle().Foreground(Caution)
	Selected = lipgloss.NewStyle().Foreground(Focus).Bold(true)

	Bar = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
)

// PaneStyle returns the border style for a pane.
func PaneStyle(focused bool) lipgloss.Style {
	if focused {
		return FocusedPane
	}
	return Pane
}
