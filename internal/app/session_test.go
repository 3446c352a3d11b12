package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/output"
)

func TestSessionContinuesAfterSQLError(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{
		results: map[string]*database.QueryResult{"SELECT id, name FROM users": usersResult()},
	}
	svc, out := newTestService(fc, output.FormatTable, "")
	reader := lines("", "SELEC broken", "SELECT id, name FROM users", "CREATE TABLE t (id int)", "EXIT", "SELECT never")

	// The broken line fails on the server side.
	client := &failingClient{fakeClient: fc, fail: "SELEC broken"}
	svc.client = client

	if err := NewSession(svc, reader, out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Error: ", "id | name", "(2 rows)", "Query executed successfully.", "Goodbye!"} {
		if !strings.Contains(got, want) {
			t.Errorf("session output missing %q:\n%s", want, got)
		}
	}
	for _, c := range fc.calls {
		if c == "ExecuteQuery SELECT never" {
			t.Error("lines after exit were executed")
		}
	}
}

// failingClient fails one SQL text.
type failingClient struct {
	*fakeClient
	fail string
}

func (f *failingClient) ExecuteQuery(ctx context.Context, sql string) (*database.QueryResult, error) {
	if sql == f.fail {
		f.record("ExecuteQuery " + sql)
		return nil, database.NewError(database.KindQueryFailed, "execute query", errBoom)
	}
	return f.fakeClient.ExecuteQuery(ctx, sql)
}

func TestSessionMetaCommands(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{
		dbs:    []database.DatabaseInfo{{Name: "shop"}},
		tables: []database.TableInfo{{Schema: "public", TableName: "users", TableType: "table", RowCount: "0"}},
	}
	svc, out := newTestService(fc, output.FormatTable, "")
	reader := lines(`\L`, `\d`, `\h`, "help", `\q`)

	if err := NewSession(svc, reader, out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(fc.calls) != 2 || fc.calls[0] != "ListDatabases" || fc.calls[1] != "ListTables" {
		t.Errorf("calls = %v", fc.calls)
	}
	if n := strings.Count(out.String(), "Interactive Commands:"); n != 3 {
		t.Errorf("help printed %d times, want 3 (banner, \\h, help)", n)
	}
}

func TestSessionMetaCommandErrorAborts(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{listErr: database.NewError(database.KindDatabaseOperationFailed, "list databases", errBoom)}
	svc, out := newTestService(fc, output.FormatTable, "")
	reader := lines(`\l`, "SELECT 1")

	err := NewSession(svc, reader, out).Run(context.Background())
	if !errors.Is(err, database.ErrDatabaseOperationFailed) {
		t.Fatalf("Run error = %v, want the listing failure", err)
	}
	if len(fc.calls) != 1 {
		t.Errorf("session kept running after \\l failed: %v", fc.calls)
	}
}

func TestSessionInterruptAndEOF(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc, out := newTestService(fc, output.FormatTable, "")
	reader := &scriptReader{steps: []step{
		{err: readline.ErrInterrupt},
		{line: "SELECT 1"},
	}}

	if err := NewSession(svc, reader, out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(fc.calls) != 1 || fc.calls[0] != "ExecuteQuery SELECT 1" {
		t.Errorf("calls = %v", fc.calls)
	}
	if !strings.HasSuffix(out.String(), "Goodbye!\n") {
		t.Errorf("EOF should say goodbye: %q", out.String())
	}
}

func TestSessionReadError(t *testing.T) {
	t.Parallel()

	svc, out := newTestService(&fakeClient{}, output.FormatTable, "")
	reader := &scriptReader{steps: []step{{err: errBoom}}}
	if err := NewSession(svc, reader, out).Run(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("Run error = %v", err)
	}
}
