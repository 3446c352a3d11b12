package database

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Placeholders used by DisplayValue.
const (
	NullText    = "NULL"
	UnknownType = "Unknown Type"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
	jsonTimeLayout  = "2006-01-02 15:04:05.999999999"
)

// probe is one candidate interpretation of a cell.
type probe struct {
	tag     string
	accepts func(typeName string) bool
	format  func(v any) (string, bool)
}

func typeIn(names ...string) func(string) bool {
	return func(typeName string) bool {
		for _, n := range names {
			if n == typeName {
				return true
			}
		}
		return false
	}
}

// probes are tried in order; the first one that accepts the declared type
// and understands the decoded value wins.
var probes = []probe{
	{"string", typeIn("text", "varchar", "bpchar", "name", "unknown", "citext", "ltree", "lquery", "ltxtquery"), func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	}},
	{"int8", typeIn("int8"), func(v any) (string, bool) {
		n, ok := v.(int64)
		return strconv.FormatInt(n, 10), ok
	}},
	{"int4", typeIn("int4"), func(v any) (string, bool) {
		n, ok := v.(int32)
		return strconv.FormatInt(int64(n), 10), ok
	}},
	{"float8", typeIn("float8"), func(v any) (string, bool) {
		f, ok := v.(float64)
		return strconv.FormatFloat(f, 'f', -1, 64), ok
	}},
	{"float4", typeIn("float4"), func(v any) (string, bool) {
		f, ok := v.(float32)
		return strconv.FormatFloat(float64(f), 'f', -1, 32), ok
	}},
	{"bool", typeIn("bool"), func(v any) (string, bool) {
		b, ok := v.(bool)
		return strconv.FormatBool(b), ok
	}},
	{"timestamp", typeIn("timestamp"), func(v any) (string, bool) {
		t, ok := v.(time.Time)
		return t.Format(timestampLayout), ok
	}},
	{"date", typeIn("date"), func(v any) (string, bool) {
		t, ok := v.(time.Time)
		return t.Format(dateLayout), ok
	}},
}

// DisplayValue renders cell index of row as display text. It is lossy:
// a text column holding digits stays a string, and a type no probe accepts
// renders as UnknownType even when the value itself is null.
func DisplayValue(row Row, index int) string {
	if index < 0 || index >= len(row.Values) || index >= len(row.Fields) {
		return UnknownType
	}
	typeName := row.Fields[index].TypeName
	v := row.Values[index]

	for _, p := range probes {
		if !p.accepts(typeName) {
			continue
		}
		if v == nil {
			return NullText
		}
		if s, ok := p.format(v); ok {
			return s
		}
	}
	return UnknownType
}

// DisplayRow renders every cell of row with DisplayValue.
func DisplayRow(row Row) []string {
	out := make([]string, len(row.Values))
	for i := range row.Values {
		out[i] = DisplayValue(row, i)
	}
	return out
}

// JSONField is one key of a JSONRow.
type JSONField struct {
	Key   string
	Value any
}

// JSONRow is a JSON object that keeps its keys in column order.
type JSONRow []JSONField

// Get returns the value stored under key.
func (r JSONRow) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields as an object in order. A repeated column
// name is written twice, as the server returned it.
func (r JSONRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", f.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RowToJSON converts row into a JSON object keyed by column name, choosing
// the JSON type from each column's declared type.
func RowToJSON(row Row) JSONRow {
	out := make(JSONRow, 0, len(row.Fields))
	for i, f := range row.Fields {
		var v any
		if i < len(row.Values) {
			v = row.Values[i]
		}
		out = append(out, JSONField{Key: f.Name, Value: jsonValue(f.TypeName, v)})
	}
	return out
}

func jsonValue(typeName string, v any) any {
	if v == nil {
		return nil
	}
	switch typeName {
	case "bool":
		if b, ok := v.(bool); ok {
			return b
		}
		return nil
	case "int2", "int4", "int8":
		return jsonInt(v)
	case "float4", "float8":
		return jsonFloat(v)
	case "text", "varchar", "char", "bpchar", "name":
		if s, ok := v.(string); ok {
			return s
		}
		return nil
	case "timestamp", "timestamptz":
		if t, ok := v.(time.Time); ok {
			return t.Format(jsonTimeLayout)
		}
		return nil
	case "date":
		if t, ok := v.(time.Time); ok {
			return t.Format(dateLayout)
		}
		return nil
	case "uuid":
		return jsonUUID(v)
	default:
		return fallbackString(v)
	}
}

func jsonInt(v any) any {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	default:
		return nil
	}
}

func jsonFloat(v any) any {
	var f float64
	switch n := v.(type) {
	case float32:
		// Go through the shortest decimal form so 1.1 stays 1.1.
		f, _ = strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', -1, 32), 64)
	case float64:
		f = n
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func jsonUUID(v any) any {
	switch u := v.(type) {
	case [16]byte:
		return uuid.UUID(u).String()
	case uuid.UUID:
		return u.String()
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return nil
		}
		return parsed.String()
	default:
		return nil
	}
}

func fallbackString(v any) any {
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil || dv == nil {
			return nil
		}
		v = dv
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(jsonTimeLayout)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
