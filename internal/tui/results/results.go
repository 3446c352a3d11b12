// Package results shows the rows of the last query as a scrollable grid.
package results

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

const maxCellWidth = 32

// Model holds typed JSON rows. Cells are rendered from their JSON value,
// so numbers, booleans and nulls keep their type when copied.
type Model struct {
	columns []string
	rows    []database.JSONRow
	sql     string
	err     error
	loading bool

	row, col int
	top      int
	width    int
	height   int
	focused  bool
	widths   []int
}

// New returns an empty results pane.
func New() Model {
	return Model{}
}

func (m *Model) SetSize(w, h int)  { m.width, m.height = w, h }
func (m *Model) SetFocused(f bool) { m.focused = f }

// SetLoading shows the running indicator.
func (m *Model) SetLoading(l bool) { m.loading = l }

// SetRows shows the result of sql.
func (m *Model) SetRows(sql string, rows []database.JSONRow) {
	m.sql = sql
	m.rows = rows
	m.err = nil
	m.loading = false
	m.row, m.col, m.top = 0, 0, 0
	m.columns = nil
	if len(rows) > 0 {
		for _, f := range rows[0] {
			m.columns = append(m.columns, f.Key)
		}
	}
	m.measure()
}

// SetError shows a failed query.
func (m *Model) SetError(sql string, err error) {
	m.sql = sql
	m.err = err
	m.rows = nil
	m.columns = nil
	m.loading = false
}

// Rows returns the displayed rows.
func (m Model) Rows() []database.JSONRow { return m.rows }

// Columns returns the displayed column names.
func (m Model) Columns() []string { return m.columns }

// Cursor returns the selected row and column.
func (m Model) Cursor() (row, col int) { return m.row, m.col }

// CellText renders a JSON value for display: null as "null", strings
// unquoted and everything else in its JSON form.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func (m *Model) measure() {
	m.widths = make([]int, len(m.columns))
	for i, c := range m.columns {
		m.widths[i] = lipgloss.Width(c)
	}
	for _, r := range m.rows {
		for i, f := range r {
			if i < len(m.widths) {
				m.widths[i] = max(m.widths[i], lipgloss.Width(CellText(f.Value)))
			}
		}
	}
	for i := range m.widths {
		m.widths[i] = min(max(m.widths[i], 1), maxCellWidth)
	}
}

// Update handles navigation, copy and export keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	page := max(m.visibleRows(), 1)
	switch key.String() {
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "pgup":
		m.moveRow(-page)
	case "pgdown":
		m.moveRow(page)
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < len(m.columns)-1 {
			m.col++
		}
	case "y":
		return m, m.copyCell()
	case "Y":
		return m, m.copyRowJSON()
	case "c":
		return m, m.copyRowCSV()
	case "e":
		return m, m.exportJSON()
	case "E":
		return m, m.exportCSV()
	}
	return m, nil
}

func (m *Model) moveRow(delta int) {
	m.row = min(max(m.row+delta, 0), max(len(m.rows)-1, 0))
	rows := max(m.visibleRows(), 1)
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+rows {
		m.top = m.row - rows + 1
	}
}

func (m Model) visibleRows() int {
	return m.height - 4
}

// View renders the pane.
func (m Model) View() string {
	title := theme.Heading.Render("Results")
	switch {
	case m.loading:
		return title + "\n" + theme.Dim.Render("  Running...")
	case m.err != nil:
		return title + "\n" + theme.Danger.Render("  Error: "+m.err.Error())
	case m.sql == "":
		return title + "\n" + theme.Dim.Render("  Ctrl+E in the editor runs the query")
	case len(m.rows) == 0:
		return title + "\n" + theme.Ok.Render("  Query executed successfully. No rows returned.")
	}

	var b strings.Builder
	b.WriteString(title + theme.Dim.Render(fmt.Sprintf(" %d rows", len(m.rows))) + "\n")
	b.WriteString(m.line(m.columns, -1, true) + "\n")

	rule := make([]string, len(m.widths))
	for i, w := range m.widths {
		rule[i] = strings.Repeat("─", w)
	}
	b.WriteString(theme.Dim.Render(" "+strings.Join(rule, "─┼─")) + "\n")

	end := min(m.top+max(m.visibleRows(), 1), len(m.rows))
	for i := m.top; i < end; i++ {
		cells := make([]string, len(m.columns))
		for j, f := range m.rows[i] {
			if j < len(cells) {
				cells[j] = CellText(f.Value)
			}
		}
		b.WriteString(m.line(cells, i, false))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) line(cells []string, row int, header bool) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		w := maxCellWidth
		if i < len(m.widths) {
			w = m.widths[i]
		}
		if lipgloss.Width(c) > w {
			r := []rune(c)
			for len(r) > 0 && lipgloss.Width(string(r)) > w-1 {
				r = r[:len(r)-1]
			}
			c = string(r) + "…"
		}
		c += strings.Repeat(" ", max(w-lipgloss.Width(c), 0))
		switch {
		case header:
			c = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(c)
		case m.focused && row == m.row && i == m.col:
			c = lipgloss.NewStyle().Reverse(true).Render(c)
		case row == m.row:
			c = theme.Selected.Render(c)
		}
		parts[i] = c
	}
	return " " + strings.Join(parts, " │ ")
}
