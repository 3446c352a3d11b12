package postgres

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joacominatel/dcon/internal/database"
)

// Statement is SQL text plus its bound parameters.
type Statement struct {
	SQL  string
	Args []any
}

// InfoQuery is one property probed by Client.ConnectionInfo.
type InfoQuery struct {
	Property string
	SQL      string
}

// SQL for catalog introspection.
const (
	queryListDatabases = `
		SELECT
			d.datname AS name,
			pg_catalog.pg_get_userbyid(d.datdba) AS owner,
			pg_catalog.pg_encoding_to_char(d.encoding) AS encoding,
			pg_catalog.pg_size_pretty(pg_catalog.pg_database_size(d.datname)) AS size,
			COALESCE(shobj.description, 'No description') AS description
		FROM pg_catalog.pg_database d
		LEFT JOIN pg_catalog.pg_shdescription shobj ON d.oid = shobj.objoid
		WHERE d.datallowconn = true
		ORDER BY d.datname`

	queryListTables = `
		SELECT
			t.schemaname AS schema,
			t.tablename AS table_name,
			'table' AS table_type
		FROM pg_tables t%s
		UNION ALL
		SELECT
			v.schemaname AS schema,
			v.viewname AS table_name,
			'view' AS table_type
		FROM pg_views v%s
		ORDER BY schema, table_name`

	queryDescribeTable = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			COALESCE(c.column_default, 'NULL') AS default_value,
			CASE WHEN pk.column_name IS NOT NULL THEN 'YES' ELSE 'NO' END AS is_primary
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT ku.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage ku
				ON tc.constraint_name = ku.constraint_name
				AND tc.table_schema = ku.table_schema
				AND tc.table_name = ku.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_name = $1
				AND tc.table_schema = $2
		) pk ON c.column_name = pk.column_name
		WHERE c.table_name = $1
		  AND c.table_schema = $2
		ORDER BY c.ordinal_position`

	querySelectOne = `SELECT 1`
)

const defaultSchema = "public"

var systemSchemas = []string{"information_schema", "pg_catalog", "pg_toast"}

// QuoteIdent double-quotes an identifier, doubling embedded double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral single-quotes a string literal, doubling embedded single quotes.
func QuoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// ListDatabases lists every database that accepts connections.
func ListDatabases() Statement {
	return Statement{SQL: queryListDatabases}
}

// ListTables lists tables and views, hiding the system schemas unless
// includeSystem is set.
func ListTables(includeSystem bool) Statement {
	var tables, views string
	if !includeSystem {
		list := make([]string, len(systemSchemas))
		for i, s := range systemSchemas {
			list[i] = QuoteLiteral(s)
		}
		in := strings.Join(list, ", ")
		tables = "\n\t\tWHERE t.schemaname NOT IN (" + in + ")"
		views = "\n\t\tWHERE v.schemaname NOT IN (" + in + ")"
	}
	return Statement{SQL: fmt.Sprintf(queryListTables, tables, views)}
}

// TableRowCount counts the rows of schema.table. An empty schema means public.
func TableRowCount(schema, table string) Statement {
	if schema == "" {
		schema = defaultSchema
	}
	return Statement{SQL: "SELECT COUNT(*) FROM " + QuoteIdent(schema) + "." + QuoteIdent(table)}
}

// DescribeTable lists the columns of schema.table. An empty schema means public.
func DescribeTable(table, schema string) Statement {
	if schema == "" {
		schema = defaultSchema
	}
	return Statement{SQL: queryDescribeTable, Args: []any{table, schema}}
}

// CreateDatabase builds CREATE DATABASE. Identifiers and the encoding are
// spliced into the text; the server does not accept them as parameters.
func CreateDatabase(name, owner, encoding string) Statement {
	var b strings.Builder
	b.WriteString("CREATE DATABASE ")
	b.WriteString(QuoteIdent(name))
	if owner != "" {
		b.WriteString(" OWNER ")
		b.WriteString(QuoteIdent(owner))
	}
	b.WriteString(" ENCODING ")
	b.WriteString(QuoteLiteral(encoding))
	return Statement{SQL: b.String()}
}

// DropDatabase builds DROP DATABASE.
func DropDatabase(name string) Statement {
	return Statement{SQL: "DROP DATABASE " + QuoteIdent(name)}
}

// DropTable builds DROP TABLE.
func DropTable(name string) Statement {
	return Statement{SQL: "DROP TABLE " + QuoteIdent(name)}
}

// Insert builds an INSERT of one row from a JSON object. Columns are taken
// in sorted key order and every value is bound as text.
func Insert(table string, data []byte) (Statement, error) {
	keys, values, err := decodeObject(data, "Data must be a JSON object", "No data provided")
	if err != nil {
		return Statement{}, err
	}

	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = QuoteIdent(k)
		params[i] = "$" + strconv.Itoa(i+1)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	return Statement{SQL: sql, Args: values}, nil
}

// Update builds an UPDATE setting the keys of a JSON object. where is
// spliced verbatim.
func Update(table string, data []byte, where string) (Statement, error) {
	keys, values, err := decodeObject(data, "Set data must be a JSON object", "No update data provided")
	if err != nil {
		return Statement{}, err
	}

	sets := make([]string, len(keys))
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", QuoteIdent(k), i+1)
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", QuoteIdent(table), strings.Join(sets, ", "), where)
	return Statement{SQL: sql, Args: values}, nil
}

// Delete builds a DELETE. where is spliced verbatim.
func Delete(table, where string) Statement {
	return Statement{SQL: fmt.Sprintf("DELETE FROM %s WHERE %s", QuoteIdent(table), where)}
}

// Select builds a SELECT from opts. Columns, Where and OrderBy are spliced
// verbatim; an empty column list selects *.
func Select(opts database.SelectOptions) Statement {
	cols := opts.Columns
	if cols == "" {
		cols = "*"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, QuoteIdent(opts.Table))
	if opts.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(opts.Where)
	}
	if opts.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(opts.OrderBy)
	}
	if opts.Limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *opts.Limit)
	}
	if opts.Offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *opts.Offset)
	}
	return Statement{SQL: b.String()}
}

// ConnectionInfoQueries returns the probes reported by Client.ConnectionInfo.
// Host and port come from the client configuration, not the server.
func ConnectionInfoQueries(host string, port uint16) []InfoQuery {
	return []InfoQuery{
		{"Database", "SELECT current_database()"},
		{"User", "SELECT current_user"},
		{"Version", "SELECT version()"},
		{"Current Schema", "SELECT current_schema()"},
		{"Session User", "SELECT session_user"},
		{"Backend PID", "SELECT pg_backend_pid()::text"},
		{"Connection Host", "SELECT " + QuoteLiteral(host)},
		{"Connection Port", "SELECT " + QuoteLiteral(strconv.FormatUint(uint64(port), 10))},
	}
}

// decodeObject parses a JSON object and returns its keys sorted with the
// matching values coerced to text.
func decodeObject(data []byte, notObject, empty string) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil, database.NewError(database.KindTableOperationFailed, notObject, nil)
		}
		return nil, nil, database.NewError(database.KindSerialization, "decode row data", err)
	}
	if obj == nil {
		return nil, nil, database.NewError(database.KindTableOperationFailed, notObject, nil)
	}
	if len(obj) == 0 {
		return nil, nil, database.NewError(database.KindTableOperationFailed, empty, nil)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]any, len(keys))
	for i, k := range keys {
		s, err := bindText(obj[k])
		if err != nil {
			return nil, nil, database.NewError(database.KindSerialization, "encode column "+k, err)
		}
		values[i] = s
	}
	return keys, values, nil
}

// bindText converts one JSON value to the text sent for it.
//
// A JSON null becomes the four characters "NULL": the column receives that
// text, not SQL NULL.
func bindText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return database.NullText, nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
