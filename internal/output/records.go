package output

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joacominatel/dcon/internal/database"
)

// Records is a list of catalog records ready for rendering. Value is what
// JSON output encodes.
type Records struct {
	Header []string
	Rows   [][]string
	Value  any
}

// list keeps an empty result a JSON array.
func list[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// ConnectionInfos lists session facts.
func ConnectionInfos(infos []database.ConnectionInfo) Records {
	r := Records{Header: []string{"Property", "Value"}, Value: list(infos)}
	for _, i := range infos {
		r.Rows = append(r.Rows, []string{i.Property, i.Value})
	}
	return r
}

// Databases lists databases.
func Databases(dbs []database.DatabaseInfo) Records {
	r := Records{Header: []string{"Database Name", "Owner", "Encoding", "Size", "Description"}, Value: list(dbs)}
	for _, d := range dbs {
		r.Rows = append(r.Rows, []string{d.Name, d.Owner, d.Encoding, d.Size, d.Description})
	}
	return r
}

// Database renders a single database. JSON output is an object, not a list.
func Database(d database.DatabaseInfo) Records {
	r := Databases([]database.DatabaseInfo{d})
	r.Value = d
	return r
}

// Tables lists tables and views.
func Tables(tables []database.TableInfo) Records {
	r := Records{Header: []string{"Schema", "Table Name", "Table Type", "Row Count"}, Value: list(tables)}
	for _, t := range tables {
		r.Rows = append(r.Rows, []string{t.Schema, t.TableName, t.TableType, t.RowCount})
	}
	return r
}

// Columns lists table columns.
func Columns(cols []database.ColumnInfo) Records {
	r := Records{Header: []string{"Column Name", "Data Type", "Is Nullable", "Default Value", "Primary Key"}, Value: list(cols)}
	for _, c := range cols {
		r.Rows = append(r.Rows, []string{c.ColumnName, c.DataType, c.IsNullable, c.DefaultValue, c.IsPrimary})
	}
	return r
}

// WriteRecordsTable renders r as a boxed table.
func WriteRecordsTable(w io.Writer, r Records, color bool) error {
	t := table.NewWriter()

	header := make(table.Row, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range r.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	style := table.StyleRounded
	if color {
		style = table.StyleColoredBright
	}
	t.SetStyle(style)
	t.Style().Format.Header = text.FormatDefault

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

// WriteRecordsCSV writes r as comma separated values without quoting.
func WriteRecordsCSV(w io.Writer, r Records) error {
	var b strings.Builder
	b.WriteString(strings.Join(r.Header, ","))
	b.WriteByte('\n')
	for _, row := range r.Rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
