package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/dcon/internal/database"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// now names export files.
var now = time.Now

func notice(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return NoticeMsg{Text: text} }
}

func (m Model) current() (database.JSONRow, bool) {
	if m.row < 0 || m.row >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.row], true
}

func (m Model) copyCell() tea.Cmd {
	r, ok := m.current()
	if !ok || m.col >= len(r) {
		return notice("Nothing to copy")
	}
	text := CellText(r[m.col].Value)
	if err := writeClipboard(text); err != nil {
		return notice("Copy failed: %v", err)
	}
	return notice("Copied %s", r[m.col].Key)
}

func (m Model) copyRowJSON() tea.Cmd {
	r, ok := m.current()
	if !ok {
		return notice("Nothing to copy")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return notice("Copy failed: %v", err)
	}
	if err := writeClipboard(string(b)); err != nil {
		return notice("Copy failed: %v", err)
	}
	return notice("Copied row %d as JSON", m.row+1)
}

func (m Model) copyRowCSV() tea.Cmd {
	r, ok := m.current()
	if !ok {
		return notice("Nothing to copy")
	}
	var buf bytes.Buffer
	if err := writeCSV(&buf, m.columns, []database.JSONRow{r}); err != nil {
		return notice("Copy failed: %v", err)
	}
	if err := writeClipboard(buf.String()); err != nil {
		return notice("Copy failed: %v", err)
	}
	return notice("Copied row %d as CSV", m.row+1)
}

func writeCSV(buf *bytes.Buffer, columns []string, rows []database.JSONRow) error {
	w := csv.NewWriter(buf)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, len(r))
		for i, f := range r {
			rec[i] = CellText(f.Value)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportName(ext string) string {
	return fmt.Sprintf("dcon_export_%s.%s", now().Format("20060102_150405"), ext)
}

func (m Model) exportJSON() tea.Cmd {
	if len(m.rows) == 0 {
		return notice("Nothing to export")
	}
	rows := m.rows
	name := exportName("json")
	return func() tea.Msg {
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return NoticeMsg{Text: "Export failed: " + err.Error()}
		}
		if err := os.WriteFile(name, append(b, '\n'), 0o644); err != nil {
			return NoticeMsg{Text: "Export failed: " + err.Error()}
		}
		return NoticeMsg{Text: fmt.Sprintf("Exported %d rows to %s", len(rows), name)}
	}
}

func (m Model) exportCSV() tea.Cmd {
	if len(m.rows) == 0 {
		return notice("Nothing to export")
	}
	columns, rows := m.columns, m.rows
	name := exportName("csv")
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := writeCSV(&buf, columns, rows); err != nil {
			return NoticeMsg{Text: "Export failed: " + err.Error()}
		}
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return NoticeMsg{Text: "Export failed: " + err.Error()}
		}
		return NoticeMsg{Text: fmt.Sprintf("Exported %d rows to %s", len(rows), name)}
	}
}
