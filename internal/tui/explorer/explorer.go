// Package explorer is the catalog tree of the browser: databases, the
// tables of the connected database and, on demand, their columns.
package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/database/postgres"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

// Kind is the type of a tree node.
type Kind int

const (
	KindDatabase Kind = iota
	KindTable
	KindColumn
)

// Node is one entry of the tree.
type Node struct {
	Kind     Kind
	Name     string
	Schema   string
	Detail   string
	Children []*Node
	Open     bool
	Loaded   bool
	Current  bool
}

// Messages emitted to the parent model.
type (
	// SwitchDatabaseMsg asks to reconnect to another database.
	SwitchDatabaseMsg struct{ Name string }
	// DescribeMsg asks for the columns of a table.
	DescribeMsg struct{ Schema, Table string }
	// PreviewMsg asks to run a query on the selected table.
	PreviewMsg struct{ SQL string }
	// RefreshMsg asks to reload the catalog.
	RefreshMsg struct{}
)

// PreviewLimit bounds the rows fetched by the preview key.
const PreviewLimit = 100

type line struct {
	node  *Node
	depth int
}

// Model is the explorer pane.
type Model struct {
	roots   []*Node
	lines   []line
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// New returns an empty explorer.
func New() Model {
	return Model{}
}

func (m *Model) SetSize(w, h int)  { m.width, m.height = w, h }
func (m *Model) SetFocused(f bool) { m.focused = f }
func (m *Model) SetLoading(l bool) { m.loading = l }

// Roots returns the database nodes.
func (m Model) Roots() []*Node { return m.roots }

// SetCatalog replaces the tree. Tables hang under the current database,
// which starts expanded.
func (m *Model) SetCatalog(dbs []database.DatabaseInfo, current string, tables []database.TableInfo) {
	m.roots = m.roots[:0]
	for _, d := range dbs {
		n := &Node{Kind: KindDatabase, Name: d.Name, Detail: d.Size}
		if d.Name == current {
			n.Current, n.Open, n.Loaded = true, true, true
			for _, t := range tables {
				n.Children = append(n.Children, &Node{
					Kind:   KindTable,
					Name:   t.TableName,
					Schema: t.Schema,
					Detail: tableDetail(t),
				})
			}
		}
		m.roots = append(m.roots, n)
	}
	m.loading = false
	m.cursor = 0
	m.rebuild()
}

func tableDetail(t database.TableInfo) string {
	if t.TableType == database.TableTypeView {
		return "view"
	}
	return t.RowCount + " rows"
}

// SetColumns attaches columns to the named table.
func (m *Model) SetColumns(schema, table string, cols []database.ColumnInfo) {
	n := m.find(schema, table)
	if n == nil {
		return
	}
	n.Children = n.Children[:0]
	for _, c := range cols {
		detail := c.DataType
		if c.IsPrimary == "YES" {
			detail += " pk"
		}
		if c.IsNullable == "NO" {
			detail += " not null"
		}
		n.Children = append(n.Children, &Node{Kind: KindColumn, Name: c.ColumnName, Schema: schema, Detail: detail})
	}
	n.Loaded = true
	n.Open = true
	m.rebuild()
}

func (m *Model) find(schema, table string) *Node {
	for _, db := range m.roots {
		if !db.Current {
			continue
		}
		for _, t := range db.Children {
			if t.Schema == schema && t.Name == table {
				return t
			}
		}
	}
	return nil
}

// TableNames returns schema-qualified names of the loaded tables.
func (m Model) TableNames() []string {
	var out []string
	for _, db := range m.roots {
		for _, t := range db.Children {
			out = append(out, qualified(t.Schema, t.Name))
		}
	}
	return out
}

func qualified(schema, table string) string {
	if schema == "" || schema == "public" {
		return postgres.QuoteIdent(table)
	}
	return postgres.QuoteIdent(schema) + "." + postgres.QuoteIdent(table)
}

func (m *Model) rebuild() {
	m.lines = m.lines[:0]
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		m.lines = append(m.lines, line{n, depth})
		if !n.Open {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range m.roots {
		walk(r, 0)
	}
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the node under the cursor.
func (m Model) Selected() *Node {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return nil
	}
	return m.lines[m.cursor].node
}

// Update handles keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		cmd := m.open()
		return m, cmd
	case "left", "h":
		if n := m.Selected(); n != nil && n.Open {
			n.Open = false
			m.rebuild()
		}
	case "s":
		if n := m.Selected(); n != nil && n.Kind == KindTable {
			sql := fmt.Sprintf("SELECT * FROM %s LIMIT %d", qualified(n.Schema, n.Name), PreviewLimit)
			return m, emit(PreviewMsg{SQL: sql})
		}
	case "r":
		return m, emit(RefreshMsg{})
	}
	return m, nil
}

func (m *Model) open() tea.Cmd {
	n := m.Selected()
	if n == nil || n.Kind == KindColumn {
		return nil
	}
	if n.Kind == KindDatabase && !n.Current {
		return emit(SwitchDatabaseMsg{Name: n.Name})
	}
	if n.Open {
		n.Open = false
		m.rebuild()
		return nil
	}
	if n.Kind == KindTable && !n.Loaded {
		return emit(DescribeMsg{Schema: n.Schema, Table: n.Name})
	}
	n.Open = true
	m.rebuild()
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the pane.
func (m Model) View() string {
	title := theme.Heading.Render("Databases")
	switch {
	case m.loading:
		return title + "\n" + theme.Dim.Render("  Loading...")
	case len(m.lines) == 0:
		return title + "\n" + theme.Dim.Render("  Not connected")
	}

	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	top := 0
	if m.cursor >= rows {
		top = m.cursor - rows + 1
	}

	out := []string{title}
	for i := top; i < len(m.lines) && i < top+rows; i++ {
		out = append(out, m.render(m.lines[i], i == m.cursor))
	}
	return strings.Join(out, "\n")
}

func (m Model) render(l line, selected bool) string {
	n := l.node
	marker := "  "
	if n.Kind != KindColumn {
		marker = "+ "
		if n.Open {
			marker = "- "
		}
	}
	name := n.Name
	if n.Kind == KindDatabase && n.Current {
		name += " *"
	}
	text := strings.Repeat("  ", l.depth) + marker + name
	plain := text
	if n.Detail != "" {
		plain += " " + n.Detail
		text += " " + theme.Dim.Render(n.Detail)
	}
	if m.width > 3 && lipgloss.Width(plain) > m.width-2 {
		text = truncate(plain, m.width-2)
	}
	if selected {
		return theme.Selected.Render(text)
	}
	return text
}

func truncate(s string, w int) string {
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > w-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
