package database

import "context"

// Client is the typed surface over one live PostgreSQL connection.
// Implementations are not safe for concurrent use.
type Client interface {
	// TestConnection runs a trivial round trip.
	TestConnection(ctx context.Context) error

	// ConnectionInfo reports facts about the current session.
	ConnectionInfo(ctx context.Context) ([]ConnectionInfo, error)

	// ListDatabases returns every database that accepts connections.
	ListDatabases(ctx context.Context) ([]DatabaseInfo, error)

	// CreateDatabase creates a database. An empty owner leaves ownership to the server.
	CreateDatabase(ctx context.Context, name, owner, encoding string) error

	// DropDatabase drops a database.
	DropDatabase(ctx context.Context, name string) error

	// DatabaseInfo looks up one database by name, or the connected one when name is empty.
	DatabaseInfo(ctx context.Context, name string) (*DatabaseInfo, error)

	// ListTables returns tables and views with their row counts.
	ListTables(ctx context.Context, includeSystem bool) ([]TableInfo, error)

	// DescribeTable returns the columns of schema.table in ordinal order.
	DescribeTable(ctx context.Context, table, schema string) ([]ColumnInfo, error)

	// TableRowCount counts the rows of schema.table.
	TableRowCount(ctx context.Context, schema, table string) (int64, error)

	// DropTable drops a table.
	DropTable(ctx context.Context, name string) error

	// ExecuteQuery runs arbitrary SQL and materializes its rows.
	ExecuteQuery(ctx context.Context, sql string) (*QueryResult, error)

	// ExecuteQueryJSON runs arbitrary SQL and converts each row with RowToJSON.
	ExecuteQueryJSON(ctx context.Context, sql string) ([]JSONRow, error)

	// Insert adds one row built from a JSON object and returns the affected row count.
	Insert(ctx context.Context, table string, data []byte) (int64, error)

	// Select runs a SELECT assembled from opts.
	Select(ctx context.Context, opts SelectOptions) (*QueryResult, error)

	// Update sets the columns of a JSON object on every row matching where.
	Update(ctx context.Context, table string, data []byte, where string) (int64, error)

	// Delete removes every row matching where.
	Delete(ctx context.Context, table, where string) (int64, error)

	// Config returns the configuration the client was opened with.
	Config() ConnectionConfig

	// Close closes the connection.
	Close(ctx context.Context) error
}
