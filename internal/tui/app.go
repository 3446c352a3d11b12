// Package tui is the full-screen browser behind "dcon browse".
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/app"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/tui/editor"
	"github.com/joacominatel/dcon/internal/tui/explorer"
	"github.com/joacominatel/dcon/internal/tui/results"
	"github.com/joacominatel/dcon/internal/tui/statusbar"
	"github.com/joacominatel/dcon/internal/tui/theme"
)

const (
	connectTimeout = 10 * time.Second
	catalogTimeout = 30 * time.Second
	queryTimeout   = 60 * time.Second
)

// Pane is a focusable area of the main view.
type Pane int

const (
	PaneExplorer Pane = iota
	PaneEditor
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneEditor:
		return "editor"
	case PaneResults:
		return "results"
	default:
		return "explorer"
	}
}

type mode int

const (
	modeForm mode = iota
	modeConnecting
	modeMain
)

// Form field order.
const (
	fieldHost = iota
	fieldPort
	fieldUser
	fieldPassword
	fieldDatabase
	fieldCount
)

type (
	connectedMsg struct {
		client database.Client
		cfg    database.ConnectionConfig
		err    error
	}
	disconnectedMsg struct {
		err error
	}
	catalogMsg struct {
		dbs    []database.DatabaseInfo
		tables []database.TableInfo
		err    error
	}
	columnsMsg struct {
		schema, table string
		cols          []database.ColumnInfo
		err           error
	}
	queryMsg struct {
		sql  string
		rows []database.JSONRow
		err  error
	}
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	conn   *app.Connection
	client database.Client

	mode    mode
	fields  []textinput.Model
	field   int
	formErr string
	spin    spinner.Model

	explorer explorer.Model
	editor   editor.Model
	results  results.Model
	status   statusbar.Model
	pane     Pane
	busy     bool
	help     bool

	width, height int
}

// NewModel returns a browser that connects through conn. The form starts
// filled with initial.
func NewModel(ctx context.Context, conn *app.Connection, initial database.ConnectionConfig) Model {
	values := []string{initial.Host, "", initial.User, initial.Password, initial.Database}
	if initial.Port != 0 {
		values[fieldPort] = strconv.Itoa(int(initial.Port))
	}
	labels := []string{"host", "port", "user", "password", "database"}

	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-9s ", labels[i])
		ti.Placeholder = labels[i]
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[i])
		if i == fieldPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		fields[i] = ti
	}
	fields[fieldHost].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return Model{
		ctx:      ctx,
		conn:     conn,
		fields:   fields,
		spin:     sp,
		explorer: explorer.New(),
		editor:   editor.New(),
		results:  results.New(),
		status:   statusbar.New(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes messages to the active mode and pane.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeMain:
			return m.updateMain(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.mode != modeConnecting && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connectedMsg:
		return m.onConnected(msg)

	case disconnectedMsg:
		m.client = nil
		m.busy = false
		m.mode = modeForm
		m.status.SetState(m.conn.State(), "")
		if msg.err != nil {
			m.formErr = "Disconnect: " + msg.err.Error()
		}
		cmd := m.focusField(fieldHost)
		return m, cmd

	case catalogMsg:
		m.busy = false
		m.explorer.SetLoading(false)
		if msg.err != nil {
			m.status.SetMessage("Catalog: " + msg.err.Error())
			return m, nil
		}
		m.explorer.SetCatalog(msg.dbs, m.conn.Config().Database, msg.tables)
		m.editor.SetTables(m.explorer.TableNames())
		m.status.SetMessage("")
		return m, nil

	case columnsMsg:
		m.busy = false
		if msg.err != nil {
			m.status.SetMessage("Describe: " + msg.err.Error())
			return m, nil
		}
		m.explorer.SetColumns(msg.schema, msg.table, msg.cols)
		m.status.SetMessage("")
		return m, nil

	case queryMsg:
		m.busy = false
		if msg.err != nil {
			m.results.SetError(msg.sql, msg.err)
			m.status.SetMessage("")
			return m, nil
		}
		m.results.SetRows(msg.sql, msg.rows)
		m.status.SetMessage(fmt.Sprintf("%d rows", len(msg.rows)))
		return m, nil

	case results.NoticeMsg:
		m.status.SetMessage(msg.Text)
		return m, nil

	case explorer.SwitchDatabaseMsg:
		if !m.begin() {
			return m, nil
		}
		cfg := m.conn.Config().WithDatabase(msg.Name)
		m.mode = modeConnecting
		m.status.SetState(app.StateConnecting, cfg.String())
		return m, tea.Batch(m.spin.Tick, m.switchCmd(cfg))

	case explorer.DescribeMsg:
		if !m.begin() {
			return m, nil
		}
		m.status.SetMessage("Describing " + msg.Table + "...")
		return m, m.describeCmd(msg.Schema, msg.Table)

	case explorer.PreviewMsg:
		m.editor.SetValue(msg.SQL)
		return m.run(msg.SQL)

	case explorer.RefreshMsg:
		if !m.begin() {
			return m, nil
		}
		m.explorer.SetLoading(true)
		return m, m.catalogCmd()

	case editor.ExecuteMsg:
		return m.run(msg.SQL)
	}

	return m.forward(msg)
}

// begin marks a request in flight. It refuses, leaving a status message,
// when one is already running.
func (m *Model) begin() bool {
	if m.client == nil {
		m.status.SetMessage("Not connected")
		return false
	}
	if m.busy {
		m.status.SetMessage("Busy: wait for the current request")
		return false
	}
	m.busy = true
	return true
}

func (m Model) run(sql string) (tea.Model, tea.Cmd) {
	if !m.begin() {
		return m, nil
	}
	m.results.SetLoading(true)
	m.status.SetMessage("Running query...")
	return m, m.queryCmd(sql)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		cmd := m.focusField((m.field + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField((m.field + fieldCount - 1) % fieldCount)
		return m, cmd
	case "enter":
		cfg, err := m.formConfig()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.mode = modeConnecting
		m.status.SetState(app.StateConnecting, cfg.String())
		return m, tea.Batch(m.spin.Tick, m.connectCmd(cfg))
	}

	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.fields[m.field].Blur()
	m.field = i
	return m.fields[i].Focus()
}

// formConfig validates the form into a connection config.
func (m Model) formConfig() (database.ConnectionConfig, error) {
	cfg := database.ConnectionConfig{
		Host:     strings.TrimSpace(m.fields[fieldHost].Value()),
		User:     strings.TrimSpace(m.fields[fieldUser].Value()),
		Password: m.fields[fieldPassword].Value(),
		Database: strings.TrimSpace(m.fields[fieldDatabase].Value()),
	}
	port, err := strconv.ParseUint(strings.TrimSpace(m.fields[fieldPort].Value()), 10, 16)
	if err != nil {
		return cfg, errors.New("port must be a number between 1 and 65535")
	}
	cfg.Port = uint16(port)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (m Model) onConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.mode = modeForm
		m.formErr = msg.err.Error()
		m.status.SetState(m.conn.State(), "")
		cmd := m.focusField(m.field)
		return m, cmd
	}
	m.client = msg.client
	m.mode = modeMain
	m.status.SetState(m.conn.State(), msg.cfg.String())
	m.setPane(PaneExplorer)
	m.layout()
	m.busy = true
	m.explorer.SetLoading(true)
	return m, m.catalogCmd()
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		m.help = false
		return m, nil
	}
	switch msg.String() {
	case "ctrl+d":
		if m.busy {
			m.status.SetMessage("Busy: wait for the current request")
			return m, nil
		}
		m.busy = true
		return m, m.disconnectCmd()
	case "tab":
		if m.pane == PaneEditor && m.editor.Completing() {
			break
		}
		m.setPane((m.pane + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setPane((m.pane + 2) % 3)
		return m, nil
	case "q", "?":
		if m.pane == PaneEditor {
			break
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		m.help = true
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode != modeMain {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.pane {
	case PaneExplorer:
		m.explorer, cmd = m.explorer.Update(msg)
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) setPane(p Pane) {
	m.pane = p
	m.explorer.SetFocused(p == PaneExplorer)
	m.editor.SetFocused(p == PaneEditor)
	m.results.SetFocused(p == PaneResults)
	m.status.SetPane(p.String())
}

// sizes splits the screen: explorer on the left, editor over results on
// the right, the status bar below.
func (m Model) sizes() (left, right, top, bottom int) {
	left = min(max(m.width/4, 24), 40)
	right = max(m.width-left, 10)
	avail := max(m.height-1, 6)
	top = max(avail/3, 5)
	bottom = max(avail-top, 3)
	return left, right, top, bottom
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	left, right, top, bottom := m.sizes()
	m.explorer.SetSize(left-2, m.height-3)
	m.editor.SetSize(right-2, top-2)
	m.results.SetSize(right-2, bottom-2)
	m.status.SetWidth(m.width)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}

func (m Model) connectCmd(cfg database.ConnectionConfig) tea.Cmd {
	conn := m.conn
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, connectTimeout)
		defer cancel()
		client, err := conn.Connect(ctx, cfg)
		return connectedMsg{client: client, cfg: cfg, err: err}
	}
}

// switchCmd closes the current connection and opens cfg.
func (m Model) switchCmd(cfg database.ConnectionConfig) tea.Cmd {
	conn := m.conn
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, connectTimeout)
		defer cancel()
		if err := conn.Disconnect(ctx); err != nil {
			return connectedMsg{cfg: cfg, err: err}
		}
		client, err := conn.Connect(ctx, cfg)
		return connectedMsg{client: client, cfg: cfg, err: err}
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	conn := m.conn
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, connectTimeout)
		defer cancel()
		return disconnectedMsg{err: conn.Disconnect(ctx)}
	}
}

func (m Model) catalogCmd() tea.Cmd {
	client := m.client
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, catalogTimeout)
		defer cancel()
		dbs, err := client.ListDatabases(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		tables, err := client.ListTables(ctx, false)
		return catalogMsg{dbs: dbs, tables: tables, err: err}
	}
}

func (m Model) describeCmd(schema, table string) tea.Cmd {
	client := m.client
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, catalogTimeout)
		defer cancel()
		cols, err := client.DescribeTable(ctx, table, schema)
		return columnsMsg{schema: schema, table: table, cols: cols, err: err}
	}
}

func (m Model) queryCmd(sql string) tea.Cmd {
	client := m.client
	base := m.ctx
	return func() tea.Msg {
		ctx, cancel := withTimeout(base, queryTimeout)
		defer cancel()
		rows, err := client.ExecuteQueryJSON(ctx, sql)
		return queryMsg{sql: sql, rows: rows, err: err}
	}
}
