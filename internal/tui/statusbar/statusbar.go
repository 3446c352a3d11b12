// Package statusbar renders the bottom line of the browser.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/app"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

const hints = "Ctrl+E run │ Tab pane │ Ctrl+D disconnect │ ? help │ q quit"

// Model shows the connection state, the target and a transient message.
type Model struct {
	width   int
	state   app.State
	target  string
	pane    string
	message string
}

// New returns a status bar in the disconnected state.
func New() Model {
	return Model{}
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(w int) { m.width = w }

// SetState records the connection state and what it points at.
func (m *Model) SetState(s app.State, target string) {
	m.state = s
	m.target = target
}

// State returns the displayed state.
func (m Model) State() app.State { return m.state }

// SetPane names the focused pane.
func (m *Model) SetPane(p string) { m.pane = p }

// SetMessage replaces the message shown instead of the key hints.
// An empty message brings the hints back.
func (m *Model) SetMessage(msg string) { m.message = msg }

// Message returns the current message.
func (m Model) Message() string { return m.message }

func (m Model) indicator() string {
	var dot lipgloss.Style
	switch m.state {
	case app.StateConnected:
		dot = theme.Ok
	case app.StateConnecting:
		dot = theme.Alert
	default:
		dot = theme.Danger
	}
	s := dot.Render("●") + " " + m.state.String()
	if m.target != "" && m.state != app.StateDisconnected {
		s += " " + m.target
	}
	if m.pane != "" {
		s += theme.Dim.Render(" [" + m.pane + "]")
	}
	return s
}

// View renders the bar.
func (m Model) View() string {
	left := m.indicator()
	right := hints
	if m.message != "" {
		right = m.message
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.Bar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
