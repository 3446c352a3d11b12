package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/output"
)

func newTestService(fc *fakeClient, format output.Format, answers string) (*Service, *bytes.Buffer) {
	var out bytes.Buffer
	printer := output.NewPrinter(&out, format, false)
	prompt := NewLinePrompter(strings.NewReader(answers), &out)
	return NewService(fc, printer, prompt, nil), &out
}

func TestGatedCommandsCancelled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name string
		run  func(*Service) error
	}{
		{"create database", func(s *Service) error { return s.CreateDatabase(ctx, "shop", "", "UTF8", false) }},
		{"drop database", func(s *Service) error { return s.DropDatabase(ctx, "shop", false) }},
		{"create table", func(s *Service) error { return s.CreateTable(ctx, "CREATE TABLE t (id int)", false) }},
		{"drop table", func(s *Service) error { return s.DropTable(ctx, "users", false) }},
		{"update", func(s *Service) error { return s.Update(ctx, "users", `{"a":1}`, "id = 1", false) }},
		{"delete", func(s *Service) error { return s.Delete(ctx, "users", "id = 1", false) }},
	}

	for _, answer := range []string{"n\n", "\n", "nope\n", ""} {
		for _, tt := range tests {
			fc := &fakeClient{}
			svc, out := newTestService(fc, output.FormatTable, answer)
			if err := tt.run(svc); err != nil {
				t.Fatalf("%s with answer %q failed: %v", tt.name, answer, err)
			}
			if len(fc.calls) != 0 {
				t.Errorf("%s with answer %q reached the client: %v", tt.name, answer, fc.calls)
			}
			if !strings.Contains(out.String(), "(y/N): ") || !strings.Contains(out.String(), "Operation cancelled.") {
				t.Errorf("%s output = %q", tt.name, out.String())
			}
		}
	}
}

func TestDestructiveCommandsConfirmed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, answer := range []string{"y\n", "YES\n", " yes \n"} {
		fc := &fakeClient{affected: 3}
		svc, out := newTestService(fc, output.FormatTable, answer)
		if err := svc.Delete(ctx, "users", "id > 1", false); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(fc.calls) != 1 || fc.calls[0] != "Delete users" {
			t.Errorf("answer %q calls = %v", answer, fc.calls)
		}
		if !strings.Contains(out.String(), "Deleted 3 row(s) from table 'users'") {
			t.Errorf("output = %q", out.String())
		}
	}

	// --confirm skips the question entirely.
	fc := &fakeClient{}
	svc, out := newTestService(fc, output.FormatTable, "")
	if err := svc.DropTable(ctx, "users", true); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}
	if strings.Contains(out.String(), "(y/N)") {
		t.Errorf("confirmed command still prompted: %q", out.String())
	}
	if len(fc.calls) != 1 || fc.calls[0] != "DropTable users" {
		t.Errorf("calls = %v", fc.calls)
	}
}

func TestUpdateRejectsInvalidJSONBeforePrompt(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc, out := newTestService(fc, output.FormatTable, "y\n")
	err := svc.Update(context.Background(), "users", `{"a":`, "id = 1", false)
	if !errors.Is(err, database.ErrSerialization) {
		t.Fatalf("Update error = %v, want serialization", err)
	}
	if strings.Contains(out.String(), "(y/N)") || len(fc.calls) != 0 {
		t.Errorf("invalid data should fail before the prompt")
	}
}

func TestReadOutput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fc := &fakeClient{result: usersResult()}
	svc, out := newTestService(fc, output.FormatCSV, "")
	if err := svc.Read(ctx, database.SelectOptions{Table: "users"}); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if want := "id,name\n\"1\",\"alice\"\n\"2\",\"bob\"\n"; out.String() != want {
		t.Errorf("Read csv =\n%s\nwant\n%s", out.String(), want)
	}

	empty := &fakeClient{}
	svc, out = newTestService(empty, output.FormatTable, "")
	if err := svc.Read(ctx, database.SelectOptions{Table: "users"}); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(out.String(), "No data found.") {
		t.Errorf("empty read output = %q", out.String())
	}
}

func TestQueryOutput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fc := &fakeClient{result: usersResult()}
	svc, out := newTestService(fc, output.FormatTable, "")
	if err := svc.Query(ctx, "SELECT id, name FROM users"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "id | name\n") || !strings.HasSuffix(got, "\n(2 rows)\n") {
		t.Errorf("Query table =\n%s", got)
	}

	svc, out = newTestService(&fakeClient{result: usersResult()}, output.FormatCSV, "")
	if err := svc.Query(ctx, "SELECT id, name FROM users"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if want := "id,name\n1,alice\n2,bob\n"; out.String() != want {
		t.Errorf("Query csv = %q, want %q", out.String(), want)
	}

	jc := &fakeClient{result: usersResult()}
	svc, out = newTestService(jc, output.FormatJSON, "")
	if err := svc.Query(ctx, "SELECT id, name FROM users"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !strings.Contains(out.String(), `"id": 1`) || len(jc.calls) != 1 {
		t.Errorf("Query json = %s, calls %v", out.String(), jc.calls)
	}

	svc, out = newTestService(&fakeClient{}, output.FormatTable, "")
	if err := svc.Query(ctx, "UPDATE users SET a = 1"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !strings.Contains(out.String(), "Query executed successfully. No rows returned.") {
		t.Errorf("empty query output = %q", out.String())
	}
}

func TestQueryError(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{queryErr: database.NewError(database.KindQueryFailed, "execute query", errBoom)}
	svc, _ := newTestService(fc, output.FormatTable, "")
	if err := svc.Query(context.Background(), "SELEC 1"); !errors.Is(err, database.ErrQueryFailed) {
		t.Errorf("Query error = %v", err)
	}
}

func TestCatalogCommands(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fc := &fakeClient{
		info:   []database.ConnectionInfo{{Property: "Database", Value: "shop"}},
		dbs:    []database.DatabaseInfo{{Name: "shop", Owner: "alice", Encoding: "UTF8", Size: "8 MB", Description: "No description"}},
		tables: []database.TableInfo{{Schema: "public", TableName: "users", TableType: "table", RowCount: "2"}},
		cols:   []database.ColumnInfo{{ColumnName: "id", DataType: "integer", IsNullable: "NO", DefaultValue: "NULL", IsPrimary: "YES"}},
	}
	svc, out := newTestService(fc, output.FormatCSV, "")

	steps := []func() error{
		func() error { return svc.Connect(ctx) },
		func() error { return svc.ListDatabases(ctx) },
		func() error { return svc.DatabaseInfo(ctx, "shop") },
		func() error { return svc.ListTables(ctx, false) },
		func() error { return svc.DescribeTable(ctx, "users", "") },
		func() error { return svc.CreateDatabase(ctx, "new", "", "UTF8", true) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	for _, want := range []string{
		"Property,Value\nDatabase,shop\n",
		"Database Name,Owner,Encoding,Size,Description\nshop,alice,UTF8,8 MB,No description\n",
		"Schema,Table Name,Table Type,Row Count\npublic,users,table,2\n",
		"Column Name,Data Type,Is Nullable,Default Value,Primary Key\nid,integer,NO,NULL,YES\n",
		"Database 'new' created successfully!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := svc.DatabaseInfo(ctx, "ghost"); !errors.Is(err, database.ErrDatabaseOperationFailed) {
		t.Errorf("DatabaseInfo(ghost) = %v", err)
	}
}

func TestCreateTable(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc, out := newTestService(fc, output.FormatTable, "y\n")
	if err := svc.CreateTable(context.Background(), "CREATE TABLE t (id int)", false); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.Contains(out.String(), "Execute CREATE TABLE statement? (y/N): ") {
		t.Errorf("output missing prompt: %q", out.String())
	}
	if !strings.Contains(out.String(), "Table created successfully!") {
		t.Errorf("output = %q", out.String())
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{affected: 1}
	svc, out := newTestService(fc, output.FormatTable, "")
	if err := svc.Insert(context.Background(), "users", `{"name":"alice"}`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !strings.Contains(out.String(), "Inserted 1 row(s) into table 'users'") {
		t.Errorf("output = %q", out.String())
	}
	if err := svc.Insert(context.Background(), "users", "not json"); !errors.Is(err, database.ErrSerialization) {
		t.Errorf("Insert with bad JSON = %v", err)
	}
}
