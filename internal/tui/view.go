package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

// View renders the current mode.
func (m Model) View() string {
	switch {
	case m.mode == modeForm:
		return m.center(m.viewForm())
	case m.mode == modeConnecting:
		return m.center(m.spin.View() + " Connecting to " + m.conn.Config().String() + "...")
	case m.help:
		return m.center(viewHelp())
	default:
		return m.viewMain()
	}
}

func (m Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m Model) viewForm() string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("dcon"),
		theme.Dim.Render("Connect to PostgreSQL"),
		"",
	}
	for _, f := range m.fields {
		lines = append(lines, f.View())
	}
	if m.formErr != "" {
		lines = append(lines, "", theme.Danger.Render(m.formErr))
	}
	lines = append(lines, "", theme.Dim.Render("Tab next field │ Enter connect │ Esc quit"))
	return strings.Join(lines, "\n")
}

func (m Model) viewMain() string {
	left, right, top, bottom := m.sizes()
	body := m.height - 3

	explorer := theme.PaneStyle(m.pane == PaneExplorer).
		Width(left - 2).Height(body).
		Render(m.explorer.View())
	editor := theme.PaneStyle(m.pane == PaneEditor).
		Width(right - 2).Height(top - 2).
		Render(m.editor.View())
	results := theme.PaneStyle(m.pane == PaneResults).
		Width(right - 2).Height(bottom - 2).
		Render(m.results.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top, explorer, lipgloss.JoinVertical(lipgloss.Left, editor, results))
	return lipgloss.JoinVertical(lipgloss.Left, main, m.status.View())
}

var helpKeys = [][2]string{
	{"Tab / Shift+Tab", "switch pane"},
	{"Ctrl+D", "disconnect"},
	{"q / Ctrl+C", "quit"},
	{"", ""},
	{"Enter / →", "expand, or switch database"},
	{"←", "collapse"},
	{"s", "preview table rows"},
	{"r", "reload catalog"},
	{"", ""},
	{"Ctrl+E / F5", "run query"},
	{"Ctrl+K", "clear editor"},
	{"Tab", "complete table name"},
	{"", ""},
	{"↑ ↓ ← →", "move through cells"},
	{"y / Y / c", "copy cell, row as JSON, row as CSV"},
	{"e / E", "export JSON, export CSV"},
}

func viewHelp() string {
	key := lipgloss.NewStyle().Width(18).Foreground(theme.Focus)
	lines := []string{theme.Heading.Render("Keys"), ""}
	for _, k := range helpKeys {
		if k[0] == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, key.Render(k[0])+theme.Dim.Render(k[1]))
	}
	lines = append(lines, "", theme.Dim.Render("any key closes"))
	return strings.Join(lines, "\n")
}
