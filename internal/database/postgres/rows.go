package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/joacominatel/dcon/internal/database"
)

// unknownTypeName is reported for OIDs the type map does not know, such as
// extension types.
const unknownTypeName = "unknown"

// collect drains rows into a QueryResult. rows is always closed.
func collect(rows pgx.Rows, types *pgtype.Map) (*database.QueryResult, error) {
	defer rows.Close()

	fds := rows.FieldDescriptions()
	fields := make([]database.Field, len(fds))
	for i, fd := range fds {
		fields[i] = database.Field{
			Name:     fd.Name,
			TypeName: typeName(types, fd.DataTypeOID),
			OID:      fd.DataTypeOID,
		}
	}

	result := &database.QueryResult{Fields: fields}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, database.Row{Fields: fields, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tag := rows.CommandTag()
	result.AffectedRows = tag.RowsAffected()
	result.CommandTag = tag.String()
	return result, nil
}

func typeName(types *pgtype.Map, oid uint32) string {
	if types == nil {
		return unknownTypeName
	}
	if t, ok := types.TypeForOID(oid); ok {
		return t.Name
	}
	return unknownTypeName
}
