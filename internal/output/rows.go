package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dcon/internal/database"
)

const columnSeparator = " | "

// WriteRowsTable writes res as aligned text: a header, a dash rule, the
// rows, a blank line and a row count footer.
func WriteRowsTable(w io.Writer, res *database.QueryResult, st Styles) error {
	cols := res.Columns()
	cells := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells[i] = database.DisplayRow(r)
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range cells {
		for i, v := range row {
			if i < len(widths) && lipgloss.Width(v) > widths[i] {
				widths[i] = lipgloss.Width(v)
			}
		}
	}

	header := alignLine(cols, widths)
	var b strings.Builder
	b.WriteString(st.Header.Render(header))
	b.WriteByte('\n')
	b.WriteString(st.Muted.Render(strings.Repeat("-", lipgloss.Width(header))))
	b.WriteByte('\n')
	for _, row := range cells {
		b.WriteString(alignLine(row, widths))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(st.Muted.Render(fmt.Sprintf("(%d rows)", len(cells))))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func alignLine(values []string, widths []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		pad := 0
		if i < len(widths) {
			pad = widths[i] - lipgloss.Width(v)
		}
		if pad < 0 {
			pad = 0
		}
		parts[i] = v + strings.Repeat(" ", pad)
	}
	return strings.TrimRight(strings.Join(parts, columnSeparator), " ")
}

// WriteRowsCSV writes res as comma separated display values. With quote set
// every value is wrapped in double quotes with embedded quotes doubled;
// otherwise values are written as they are.
func WriteRowsCSV(w io.Writer, res *database.QueryResult, quote bool) error {
	var b strings.Builder
	b.WriteString(strings.Join(res.Columns(), ","))
	b.WriteByte('\n')
	for _, r := range res.Rows {
		values := database.DisplayRow(r)
		if quote {
			for i, v := range values {
				values[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
			}
		}
		b.WriteString(strings.Join(values, ","))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes v as JSON indented by two spaces.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return database.NewError(database.KindSerialization, "encode json", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return database.NewError(database.KindIO, "write output", err)
	}
	return nil
}
