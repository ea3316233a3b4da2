package dbx

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// coercion identifies the semantic type a column is converted to.
type coercion int

const (
	coerceNone coercion = iota
	coerceInt
	coerceBool
	coerceFloat
)

// Driver type names mapped to semantic types. The pgx stdlib driver reports
// the postgres names (INT4, BOOL, NUMERIC, ...); the MySQL-style aliases are
// kept so the decoder behaves the same against other drivers and mocks.
var coercions = map[string]coercion{
	"INT2": coerceInt, "INT4": coerceInt, "INT8": coerceInt,
	"INTEGER": coerceInt, "BIGINT": coerceInt, "SMALLINT": coerceInt,
	"SERIAL": coerceInt, "LONG": coerceInt, "LONGLONG": coerceInt,

	"BOOL": coerceBool, "BOOLEAN": coerceBool, "TINY": coerceBool,

	"FLOAT4": coerceFloat, "FLOAT8": coerceFloat, "FLOAT": coerceFloat,
	"DOUBLE": coerceFloat, "NUMERIC": coerceFloat, "DECIMAL": coerceFloat,
	"NEWDECIMAL": coerceFloat,
}

// decoder turns raw rows into Records: declared integer/boolean/float
// columns are coerced from whatever the driver produced, and every non-null
// string value has disallowed markup stripped.
type decoder struct {
	policy *bluemonday.Policy
}

// newDecoder builds a decoder whose sanitizer keeps only the given HTML
// elements. An empty allow-list strips all markup.
func newDecoder(allowedTags []string) *decoder {
	if len(allowedTags) == 0 {
		return &decoder{policy: bluemonday.StrictPolicy()}
	}
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	return &decoder{policy: p}
}

// plan derives the column list and per-column coercions from the statement's
// result metadata. Metadata is read once per statement; drivers that cannot
// provide it (or empty result sets on some drivers) yield a plan with no
// coercions, which degrades to sanitize-only decoding.
func (d *decoder) plan(rows *sql.Rows) ([]string, []coercion, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	plan := make([]coercion, len(columns))

	types, err := rows.ColumnTypes()
	if err != nil || len(types) != len(columns) {
		return columns, plan, nil
	}
	for i, ct := range types {
		plan[i] = coercions[strings.ToUpper(ct.DatabaseTypeName())]
	}
	return columns, plan, nil
}

// decode builds a Record from one scanned row. NULL stays nil; the input
// slice is never retained.
func (d *decoder) decode(columns []string, plan []coercion, values []any) Record {
	record := make(Record, len(columns))
	for i, column := range columns {
		record[column] = d.decodeValue(plan[i], values[i])
	}
	return record
}

func (d *decoder) decodeValue(c coercion, value any) any {
	if value == nil {
		return nil
	}
	switch c {
	case coerceInt:
		if v, ok := toInt64(value); ok {
			return v
		}
	case coerceBool:
		if v, ok := toBool(value); ok {
			return v
		}
	case coerceFloat:
		if v, ok := toFloat64(value); ok {
			return v
		}
	}
	// Coercion failures and undeclared columns keep the scanned value,
	// with textual values sanitized.
	if s, ok := toString(value); ok {
		return d.policy.Sanitize(s)
	}
	return value
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case []byte:
		return parseInt64(string(v))
	case string:
		return parseInt64(v)
	}
	return 0, false
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case int:
		return v != 0, true
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	}
	return false, false
}

func parseBool(s string) (bool, bool) {
	// Postgres reports booleans as "t"/"f" in text mode.
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes", "on":
		return true, true
	case "f", "false", "0", "n", "no", "off", "":
		return false, true
	}
	return false, false
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case []byte:
		return parseFloat64(string(v))
	case string:
		return parseFloat64(v)
	}
	return 0, false
}

func parseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case time.Time:
		return v.Format(time.RFC3339), true
	}
	return "", false
}
