package database

// ConnectionInfo is one fact about the live session.
type ConnectionInfo struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// DatabaseInfo describes one database from the server catalog.
type DatabaseInfo struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Encoding    string `json:"encoding"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

// Table types reported in TableInfo.TableType.
const (
	TableTypeTable = "table"
	TableTypeView  = "view"
)

// Row count placeholders reported in TableInfo.RowCount.
const (
	RowCountNotApplicable = "N/A"
	RowCountError         = "Error"
)

// TableInfo describes one table or view.
type TableInfo struct {
	Schema    string `json:"schema"`
	TableName string `json:"table_name"`
	TableType string `json:"table_type"`
	RowCount  string `json:"row_count"`
}

// ColumnInfo describes one column of a table, as reported by information_schema.
type ColumnInfo struct {
	ColumnName   string `json:"column_name"`
	DataType     string `json:"data_type"`
	IsNullable   string `json:"is_nullable"`
	DefaultValue string `json:"default_value"`
	IsPrimary    string `json:"is_primary"`
}

// Field is the metadata of one result column.
type Field struct {
	Name     string
	TypeName string
	OID      uint32
}

// Row is one result row. Fields is shared by every row of a result.
type Row struct {
	Fields []Field
	Values []any
}

// Len returns the number of cells.
func (r Row) Len() int {
	return len(r.Values)
}

// Index returns the position of the named column, or -1.
func (r Row) Index(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the decoded value of the named column.
func (r Row) Get(name string) (any, bool) {
	i := r.Index(name)
	if i < 0 || i >= len(r.Values) {
		return nil, false
	}
	return r.Values[i], true
}

// QueryResult holds the rows returned by one statement.
type QueryResult struct {
	Fields       []Field
	Rows         []Row
	AffectedRows int64
	CommandTag   string
}

// Columns returns the result column names in order.
func (q *QueryResult) Columns() []string {
	cols := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Len returns the number of rows.
func (q *QueryResult) Len() int {
	return len(q.Rows)
}

// IsEmpty reports whether no rows were returned.
func (q *QueryResult) IsEmpty() bool {
	return len(q.Rows) == 0
}

// JSON converts every row with RowToJSON.
func (q *QueryResult) JSON() []JSONRow {
	out := make([]JSONRow, len(q.Rows))
	for i, r := range q.Rows {
		out[i] = RowToJSON(r)
	}
	return out
}

// SelectOptions are the fragments of a generic SELECT. Columns, Where and
// OrderBy are spliced into the statement verbatim.
type SelectOptions struct {
	Table   string
	Columns string
	Where   string
	OrderBy string
	Limit   *int64
	Offset  *int64
}
