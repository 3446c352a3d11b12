// Package editor is the SQL input pane of the browser.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

// ExecuteMsg carries the editor content to run.
type ExecuteMsg struct {
	SQL string
}

// Model wraps a textarea with run and table name completion keys.
type Model struct {
	area    textarea.Model
	focused bool

	tables  []string
	matches []string
	pick    int
}

// New returns an empty editor.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "SELECT * FROM ..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = "┃ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(theme.Accent)
	ta.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(theme.Frame)
	ta.FocusedStyle.Placeholder = theme.Dim
	ta.BlurredStyle.Placeholder = theme.Dim
	return Model{area: ta}
}

// SetSize sizes the text area inside the pane border and title.
func (m *Model) SetSize(w, h int) {
	m.area.SetWidth(max(w-2, 1))
	m.area.SetHeight(max(h-2, 1))
}

// SetFocused moves keyboard focus in or out.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.area.Focus()
		return
	}
	m.area.Blur()
}

// Value returns the SQL text.
func (m Model) Value() string { return m.area.Value() }

// SetValue replaces the SQL text.
func (m *Model) SetValue(sql string) {
	m.area.SetValue(sql)
	m.matches = nil
}

// SetTables sets the names offered by Tab completion.
func (m *Model) SetTables(names []string) { m.tables = names }

// Completing reports whether Tab is cycling through candidates.
func (m Model) Completing() bool { return len(m.matches) > 0 }

// Update handles keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+e", "f5":
			sql := strings.TrimSpace(m.area.Value())
			m.matches = nil
			if sql == "" {
				return m, nil
			}
			return m, func() tea.Msg { return ExecuteMsg{SQL: sql} }
		case "ctrl+k":
			m.area.Reset()
			m.matches = nil
			return m, nil
		case "tab":
			if m.complete() {
				return m, nil
			}
		case "esc":
			m.matches = nil
			return m, nil
		default:
			m.matches = nil
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

// complete replaces the trailing word with the next matching table name.
func (m *Model) complete() bool {
	text := m.area.Value()
	word := lastWord(text)
	if len(m.matches) > 0 {
		m.pick = (m.pick + 1) % len(m.matches)
	} else {
		if word == "" {
			return false
		}
		prefix := strings.ToLower(strings.Trim(word, `"`))
		for _, t := range m.tables {
			if strings.HasPrefix(strings.ToLower(strings.Trim(t, `"`)), prefix) {
				m.matches = append(m.matches, t)
			}
		}
		if len(m.matches) == 0 {
			return false
		}
		m.pick = 0
	}
	m.area.SetValue(strings.TrimSuffix(text, word) + m.matches[m.pick])
	return true
}

func lastWord(s string) string {
	i := strings.LastIndexAny(s, " \t\n(,")
	return s[i+1:]
}

// View renders the pane.
func (m Model) View() string {
	out := theme.Heading.Render("SQL") + "\n" + m.area.View()
	if len(m.matches) > 1 {
		names := make([]string, len(m.matches))
		for i, c := range m.matches {
			if i == m.pick {
				names[i] = theme.Selected.Render(c)
			} else {
				names[i] = theme.Dim.Render(c)
			}
		}
		out += "\n " + strings.Join(names, " ")
	}
	return out
}
