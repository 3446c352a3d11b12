package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	fields []pgconn.FieldDescription
	data   [][]any
	tag    string
	err    error

	pos    int
	closed bool
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag(r.tag) }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil || r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.data) {
		return nil, fmt.Errorf("no current row")
	}
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	values, err := r.Values()
	if err != nil {
		return err
	}
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().ConvertibleTo(target.Type()) {
			return fmt.Errorf("scan: cannot assign %T to %s", values[i], target.Type())
		}
		target.Set(v.Convert(target.Type()))
	}
	return nil
}

// fakeRow adapts fakeRows to pgx.Row the way QueryRow does.
type fakeRow struct {
	rows *fakeRows
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()
	if !r.rows.Next() {
		if r.rows.err != nil {
			return r.rows.err
		}
		return pgx.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

type call struct {
	sql  string
	args []any
}

// fakeConn answers queries through handler and records every call.
type fakeConn struct {
	handler func(sql string, args []any) (*fakeRows, error)
	execTag string
	execErr error

	calls  []call
	execs  []call
	closed bool
	types  *pgtype.Map
}

func newFakeConn(handler func(sql string, args []any) (*fakeRows, error)) *fakeConn {
	return &fakeConn{handler: handler, types: pgtype.NewMap()}
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.calls = append(c.calls, call{sql, args})
	if c.handler == nil {
		return &fakeRows{}, nil
	}
	rows, err := c.handler(sql, args)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	rows, err := c.Query(ctx, sql, args...)
	if err != nil {
		return fakeRow{err: err}
	}
	return fakeRow{rows: rows.(*fakeRows)}
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, call{sql, args})
	if c.execErr != nil {
		return pgconn.CommandTag{}, c.execErr
	}
	return pgconn.NewCommandTag(c.execTag), nil
}

func (c *fakeConn) TypeMap() *pgtype.Map { return c.types }

func (c *fakeConn) Close(context.Context) error {
	c.closed = true
	return nil
}

func field(name string, oid uint32) pgconn.FieldDescription {
	return pgconn.FieldDescription{Name: name, DataTypeOID: oid}
}

func single(v any) *fakeRows {
	return &fakeRows{fields: []pgconn.FieldDescription{field("?column?", pgtype.TextOID)}, data: [][]any{{v}}}
}
