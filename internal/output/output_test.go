package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joacominatel/dcon/internal/database"
)

func usersResult() *database.QueryResult {
	fields := []database.Field{{Name: "id", TypeName: "int4"}, {Name: "name", TypeName: "text"}}
	return &database.QueryResult{
		Fields: fields,
		Rows: []database.Row{
			{Fields: fields, Values: []any{int32(1), "alice"}},
			{Fields: fields, Values: []any{int32(2), `say "hi"`}},
		},
	}
}

func plain(buf *bytes.Buffer) Styles {
	return NewStyles(buf, false)
}

func TestWriteRowsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteRowsTable(&buf, usersResult(), plain(&buf)); err != nil {
		t.Fatalf("WriteRowsTable failed: %v", err)
	}

	want := strings.Join([]string{
		"id | name",
		"---------",
		"1  | alice",
		`2  | say "hi"`,
		"",
		"(2 rows)",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteRowsTable =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteRowsTableWideColumn(t *testing.T) {
	t.Parallel()

	fields := []database.Field{{Name: "n", TypeName: "int8"}, {Name: "label", TypeName: "text"}}
	res := &database.QueryResult{Fields: fields, Rows: []database.Row{{Fields: fields, Values: []any{int64(12345), "x"}}}}

	var buf bytes.Buffer
	if err := WriteRowsTable(&buf, res, plain(&buf)); err != nil {
		t.Fatalf("WriteRowsTable failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "n     | label" || lines[2] != "12345 | x" {
		t.Errorf("unexpected alignment:\n%s", buf.String())
	}
	if lines[4] != "(1 rows)" {
		t.Errorf("footer = %q", lines[4])
	}
}

func TestWriteRowsCSV(t *testing.T) {
	t.Parallel()

	var quoted bytes.Buffer
	if err := WriteRowsCSV(&quoted, usersResult(), true); err != nil {
		t.Fatalf("WriteRowsCSV failed: %v", err)
	}
	if want := "id,name\n\"1\",\"alice\"\n\"2\",\"say \"\"hi\"\"\"\n"; quoted.String() != want {
		t.Errorf("quoted csv =\n%s\nwant\n%s", quoted.String(), want)
	}

	var bare bytes.Buffer
	if err := WriteRowsCSV(&bare, usersResult(), false); err != nil {
		t.Fatalf("WriteRowsCSV failed: %v", err)
	}
	if want := "id,name\n1,alice\n2,say \"hi\"\n"; bare.String() != want {
		t.Errorf("plain csv =\n%s\nwant\n%s", bare.String(), want)
	}
}

func TestWriteJSONRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, usersResult().JSON()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	want := `[
  {
    "id": 1,
    "name": "alice"
  },
  {
    "id": 2,
    "name": "say \"hi\""
  }
]
`
	if buf.String() != want {
		t.Errorf("WriteJSON =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRecords(t *testing.T) {
	t.Parallel()

	tables := Tables([]database.TableInfo{
		{Schema: "public", TableName: "users", TableType: "table", RowCount: "2"},
		{Schema: "public", TableName: "recent", TableType: "view", RowCount: "N/A"},
	})

	var csvBuf bytes.Buffer
	if err := WriteRecordsCSV(&csvBuf, tables); err != nil {
		t.Fatalf("WriteRecordsCSV failed: %v", err)
	}
	if want := "Schema,Table Name,Table Type,Row Count\npublic,users,table,2\npublic,recent,view,N/A\n"; csvBuf.String() != want {
		t.Errorf("records csv =\n%s", csvBuf.String())
	}

	var tbl bytes.Buffer
	if err := WriteRecordsTable(&tbl, tables, false); err != nil {
		t.Fatalf("WriteRecordsTable failed: %v", err)
	}
	for _, want := range []string{"Table Name", "users", "recent", "N/A"} {
		if !strings.Contains(tbl.String(), want) {
			t.Errorf("records table missing %q:\n%s", want, tbl.String())
		}
	}

	var js bytes.Buffer
	if err := WriteJSON(&js, Columns([]database.ColumnInfo{{ColumnName: "id", DataType: "integer", IsNullable: "NO", DefaultValue: "NULL", IsPrimary: "YES"}}).Value); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	for _, key := range []string{`"column_name": "id"`, `"data_type"`, `"is_nullable"`, `"default_value": "NULL"`, `"is_primary": "YES"`} {
		if !strings.Contains(js.String(), key) {
			t.Errorf("column json missing %s:\n%s", key, js.String())
		}
	}
}

func TestEmptyRecordsAreJSONArrays(t *testing.T) {
	t.Parallel()

	for name, r := range map[string]Records{
		"infos":     ConnectionInfos(nil),
		"databases": Databases(nil),
		"tables":    Tables(nil),
		"columns":   Columns(nil),
	} {
		var buf bytes.Buffer
		if err := NewPrinter(&buf, FormatJSON, false).Records(r); err != nil {
			t.Fatalf("%s: Records failed: %v", name, err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("%s: empty json = %q, want %q", name, buf.String(), "[]\n")
		}
	}
}

func TestPrinterQuietHeadings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON, false)
	p.Title("Available Tables:")
	if buf.Len() != 0 {
		t.Errorf("json output should not carry headings, got %q", buf.String())
	}

	p = NewPrinter(&buf, FormatTable, false)
	p.Title("Available Tables:")
	if buf.String() != "Available Tables:\n" {
		t.Errorf("Title = %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"table": FormatTable, "JSON": FormatJSON, " csv ": FormatCSV, "": FormatTable} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}
