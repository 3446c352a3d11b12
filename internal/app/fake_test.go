package app

import (
	"context"
	"errors"
	"io"

	"github.com/joacominatel/dcon/internal/database"
)

// fakeClient records calls and answers from its fields.
type fakeClient struct {
	calls []string

	info     []database.ConnectionInfo
	dbs      []database.DatabaseInfo
	tables   []database.TableInfo
	cols     []database.ColumnInfo
	result   *database.QueryResult
	results  map[string]*database.QueryResult
	queryErr error
	listErr  error
	affected int64
	closed   bool
}

var _ database.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) TestConnection(context.Context) error { f.record("TestConnection"); return nil }

func (f *fakeClient) ConnectionInfo(context.Context) ([]database.ConnectionInfo, error) {
	f.record("ConnectionInfo")
	return f.info, nil
}

func (f *fakeClient) ListDatabases(context.Context) ([]database.DatabaseInfo, error) {
	f.record("ListDatabases")
	return f.dbs, f.listErr
}

func (f *fakeClient) CreateDatabase(_ context.Context, name, _, _ string) error {
	f.record("CreateDatabase " + name)
	return nil
}

func (f *fakeClient) DropDatabase(_ context.Context, name string) error {
	f.record("DropDatabase " + name)
	return nil
}

func (f *fakeClient) DatabaseInfo(_ context.Context, name string) (*database.DatabaseInfo, error) {
	f.record("DatabaseInfo " + name)
	for i := range f.dbs {
		if f.dbs[i].Name == name {
			return &f.dbs[i], nil
		}
	}
	return nil, database.NewError(database.KindDatabaseOperationFailed, "Database '"+name+"' not found", nil)
}

func (f *fakeClient) ListTables(context.Context, bool) ([]database.TableInfo, error) {
	f.record("ListTables")
	return f.tables, f.listErr
}

func (f *fakeClient) DescribeTable(_ context.Context, table, _ string) ([]database.ColumnInfo, error) {
	f.record("DescribeTable " + table)
	return f.cols, nil
}

func (f *fakeClient) TableRowCount(context.Context, string, string) (int64, error) {
	f.record("TableRowCount")
	return 0, nil
}

func (f *fakeClient) DropTable(_ context.Context, name string) error {
	f.record("DropTable " + name)
	return nil
}

func (f *fakeClient) ExecuteQuery(_ context.Context, sql string) (*database.QueryResult, error) {
	f.record("ExecuteQuery " + sql)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if r, ok := f.results[sql]; ok {
		return r, nil
	}
	if f.result != nil {
		return f.result, nil
	}
	return &database.QueryResult{}, nil
}

func (f *fakeClient) ExecuteQueryJSON(ctx context.Context, sql string) ([]database.JSONRow, error) {
	res, err := f.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.JSON(), nil
}

func (f *fakeClient) Insert(_ context.Context, table string, _ []byte) (int64, error) {
	f.record("Insert " + table)
	return f.affected, nil
}

func (f *fakeClient) Select(_ context.Context, opts database.SelectOptions) (*database.QueryResult, error) {
	f.record("Select " + opts.Table)
	if f.result != nil {
		return f.result, nil
	}
	return &database.QueryResult{}, nil
}

func (f *fakeClient) Update(_ context.Context, table string, _ []byte, _ string) (int64, error) {
	f.record("Update " + table)
	return f.affected, nil
}

func (f *fakeClient) Delete(_ context.Context, table, _ string) (int64, error) {
	f.record("Delete " + table)
	return f.affected, nil
}

func (f *fakeClient) Config() database.ConnectionConfig { return database.DefaultConfig() }

func (f *fakeClient) Close(context.Context) error {
	f.closed = true
	return nil
}

// step is one Readline answer.
type step struct {
	line string
	err  error
}

// scriptReader replays steps, then io.EOF.
type scriptReader struct {
	steps []step
	pos   int
}

func lines(ls ...string) *scriptReader {
	r := &scriptReader{}
	for _, l := range ls {
		r.steps = append(r.steps, step{line: l})
	}
	return r
}

func (r *scriptReader) Readline() (string, error) {
	if r.pos >= len(r.steps) {
		return "", io.EOF
	}
	s := r.steps[r.pos]
	r.pos++
	return s.line, s.err
}

func usersResult() *database.QueryResult {
	fields := []database.Field{{Name: "id", TypeName: "int4"}, {Name: "name", TypeName: "text"}}
	return &database.QueryResult{
		Fields: fields,
		Rows: []database.Row{
			{Fields: fields, Values: []any{int32(1), "alice"}},
			{Fields: fields, Values: []any{int32(2), "bob"}},
		},
	}
}

var errBoom = errors.New("boom")
