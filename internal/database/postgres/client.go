package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/joacominatel/dcon/internal/database"
)

// conn is the part of *pgx.Conn the client uses.
type conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	TypeMap() *pgtype.Map
	Close(ctx context.Context) error
}

const notAvailable = "N/A"

// Client implements database.Client over a single PostgreSQL connection.
type Client struct {
	conn   conn
	cfg    database.ConnectionConfig
	logger *slog.Logger
}

var _ database.Client = (*Client)(nil)

// Connect validates cfg and opens one connection.
func Connect(ctx context.Context, cfg database.ConnectionConfig, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	pgcfg, err := pgx.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, database.NewError(database.KindInvalidConfiguration, "parse connection string", err)
	}
	// Describe every statement without caching it.
	pgcfg.DefaultQueryExecMode = pgx.QueryExecModeDescribeExec
	pgcfg.Tracer = newTracer(logger)
	pgcfg.OnNotice = noticeHandler(logger)

	logger.Debug("connecting", "target", cfg.String())
	c, err := pgx.ConnectConfig(ctx, pgcfg)
	if err != nil {
		return nil, database.Wrap(database.KindConnectionFailed, "connect to "+cfg.String(), err)
	}

	return newClient(c, cfg, logger), nil
}

func newClient(c conn, cfg database.ConnectionConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{conn: c, cfg: cfg, logger: logger}
}

// Config returns the configuration the client was opened with.
func (c *Client) Config() database.ConnectionConfig {
	return c.cfg
}

// Close closes the connection.
func (c *Client) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Close(ctx); err != nil {
		return database.Wrap(database.KindConnectionFailed, "close connection", err)
	}
	return nil
}

// TestConnection runs SELECT 1.
func (c *Client) TestConnection(ctx context.Context) error {
	var one int32
	if err := c.conn.QueryRow(ctx, querySelectOne).Scan(&one); err != nil {
		return database.Wrap(database.KindConnectionFailed, "test connection", err)
	}
	return nil
}

// ConnectionInfo runs each probe of ConnectionInfoQueries. A probe that
// fails is reported as N/A instead of failing the whole call.
func (c *Client) ConnectionInfo(ctx context.Context) ([]database.ConnectionInfo, error) {
	queries := ConnectionInfoQueries(c.cfg.Host, c.cfg.Port)
	info := make([]database.ConnectionInfo, 0, len(queries))
	for _, q := range queries {
		value := notAvailable
		var s string
		if err := c.conn.QueryRow(ctx, q.SQL).Scan(&s); err != nil {
			c.logger.Debug("connection info probe failed", "property", q.Property, "error", err)
		} else {
			value = s
		}
		info = append(info, database.ConnectionInfo{Property: q.Property, Value: value})
	}
	return info, nil
}

// ListDatabases returns every database that accepts connections.
func (c *Client) ListDatabases(ctx context.Context) ([]database.DatabaseInfo, error) {
	stmt := ListDatabases()
	rows, err := c.query(ctx, stmt)
	if err != nil {
		return nil, database.Wrap(database.KindDatabaseOperationFailed, "list databases", err)
	}
	defer rows.Close()

	dbs := make([]database.DatabaseInfo, 0)
	for rows.Next() {
		var d database.DatabaseInfo
		if err := rows.Scan(&d.Name, &d.Owner, &d.Encoding, &d.Size, &d.Description); err != nil {
			return nil, database.Wrap(database.KindDatabaseOperationFailed, "scan database", err)
		}
		dbs = append(dbs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap(database.KindDatabaseOperationFailed, "list databases", err)
	}
	return dbs, nil
}

// DatabaseInfo looks a database up by name. An empty name means the
// connected database.
func (c *Client) DatabaseInfo(ctx context.Context, name string) (*database.DatabaseInfo, error) {
	if name == "" {
		name = c.cfg.Database
	}
	dbs, err := c.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	for i := range dbs {
		if dbs[i].Name == name {
			return &dbs[i], nil
		}
	}
	return nil, database.NewError(database.KindDatabaseOperationFailed,
		fmt.Sprintf("Database '%s' not found", name), nil)
}

// CreateDatabase creates a database.
func (c *Client) CreateDatabase(ctx context.Context, name, owner, encoding string) error {
	if _, err := c.exec(ctx, CreateDatabase(name, owner, encoding)); err != nil {
		return database.Wrap(database.KindDatabaseOperationFailed, "create database "+name, err)
	}
	return nil
}

// DropDatabase drops a database.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	if _, err := c.exec(ctx, DropDatabase(name)); err != nil {
		return database.Wrap(database.KindDatabaseOperationFailed, "drop database "+name, err)
	}
	return nil
}

// ListTables returns tables and views. Each table costs one extra COUNT(*)
// query; a count that fails is reported as Error, views as N/A.
func (c *Client) ListTables(ctx context.Context, includeSystem bool) ([]database.TableInfo, error) {
	rows, err := c.query(ctx, ListTables(includeSystem))
	if err != nil {
		return nil, database.Wrap(database.KindTableOperationFailed, "list tables", err)
	}

	tables := make([]database.TableInfo, 0)
	for rows.Next() {
		var t database.TableInfo
		if err := rows.Scan(&t.Schema, &t.TableName, &t.TableType); err != nil {
			rows.Close()
			return nil, database.Wrap(database.KindTableOperationFailed, "scan table", err)
		}
		tables = append(tables, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, database.Wrap(database.KindTableOperationFailed, "list tables", err)
	}

	// The connection is free again; count rows table by table.
	for i := range tables {
		t := &tables[i]
		if t.TableType != database.TableTypeTable {
			t.RowCount = database.RowCountNotApplicable
			continue
		}
		n, err := c.TableRowCount(ctx, t.Schema, t.TableName)
		if err != nil {
			c.logger.Warn("row count failed", "table", t.Schema+"."+t.TableName, "error", err)
			t.RowCount = database.RowCountError
			continue
		}
		t.RowCount = strconv.FormatInt(n, 10)
	}
	return tables, nil
}

// DescribeTable returns the columns of schema.table. An empty schema means public.
func (c *Client) DescribeTable(ctx context.Context, table, schema string) ([]database.ColumnInfo, error) {
	rows, err := c.query(ctx, DescribeTable(table, schema))
	if err != nil {
		return nil, database.Wrap(database.KindTableOperationFailed, "describe table "+table, err)
	}
	defer rows.Close()

	cols := make([]database.ColumnInfo, 0)
	for rows.Next() {
		var col database.ColumnInfo
		if err := rows.Scan(&col.ColumnName, &col.DataType, &col.IsNullable, &col.DefaultValue, &col.IsPrimary); err != nil {
			return nil, database.Wrap(database.KindTableOperationFailed, "scan column", err)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap(database.KindTableOperationFailed, "describe table "+table, err)
	}
	return cols, nil
}

// TableRowCount counts the rows of schema.table.
func (c *Client) TableRowCount(ctx context.Context, schema, table string) (int64, error) {
	stmt := TableRowCount(schema, table)
	c.logger.Debug("executing", "sql", stmt.SQL)

	var n int64
	if err := c.conn.QueryRow(ctx, stmt.SQL).Scan(&n); err != nil {
		return 0, database.Wrap(database.KindQueryFailed, "count rows of "+table, err)
	}
	return n, nil
}

// DropTable drops a table.
func (c *Client) DropTable(ctx context.Context, name string) error {
	if _, err := c.exec(ctx, DropTable(name)); err != nil {
		return database.Wrap(database.KindTableOperationFailed, "drop table "+name, err)
	}
	return nil
}

// ExecuteQuery runs sql and materializes every row.
func (c *Client) ExecuteQuery(ctx context.Context, sql string) (*database.QueryResult, error) {
	res, err := c.fetch(ctx, Statement{SQL: sql})
	if err != nil {
		return nil, database.Wrap(database.KindQueryFailed, "execute query", err)
	}
	return res, nil
}

// ExecuteQueryJSON runs sql and converts every row with database.RowToJSON.
func (c *Client) ExecuteQueryJSON(ctx context.Context, sql string) ([]database.JSONRow, error) {
	res, err := c.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.JSON(), nil
}

// Insert adds one row built from a JSON object.
func (c *Client) Insert(ctx context.Context, table string, data []byte) (int64, error) {
	stmt, err := Insert(table, data)
	if err != nil {
		return 0, err
	}
	tag, err := c.exec(ctx, stmt)
	if err != nil {
		return 0, database.Wrap(database.KindTableOperationFailed, "insert into "+table, err)
	}
	return tag.RowsAffected(), nil
}

// Select runs a SELECT assembled from opts.
func (c *Client) Select(ctx context.Context, opts database.SelectOptions) (*database.QueryResult, error) {
	res, err := c.fetch(ctx, Select(opts))
	if err != nil {
		return nil, database.Wrap(database.KindTableOperationFailed, "select from "+opts.Table, err)
	}
	return res, nil
}

// Update sets the columns of a JSON object on every row matching where.
func (c *Client) Update(ctx context.Context, table string, data []byte, where string) (int64, error) {
	stmt, err := Update(table, data, where)
	if err != nil {
		return 0, err
	}
	tag, err := c.exec(ctx, stmt)
	if err != nil {
		return 0, database.Wrap(database.KindTableOperationFailed, "update "+table, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes every row matching where.
func (c *Client) Delete(ctx context.Context, table, where string) (int64, error) {
	tag, err := c.exec(ctx, Delete(table, where))
	if err != nil {
		return 0, database.Wrap(database.KindTableOperationFailed, "delete from "+table, err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) query(ctx context.Context, stmt Statement) (pgx.Rows, error) {
	c.logger.Debug("executing", "sql", stmt.SQL)
	return c.conn.Query(ctx, stmt.SQL, stmt.Args...)
}

func (c *Client) fetch(ctx context.Context, stmt Statement) (*database.QueryResult, error) {
	rows, err := c.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return collect(rows, c.conn.TypeMap())
}

func (c *Client) exec(ctx context.Context, stmt Statement) (pgconn.CommandTag, error) {
	c.logger.Debug("executing", "sql", stmt.SQL)
	return c.conn.Exec(ctx, stmt.SQL, stmt.Args...)
}
