package dbx

// Record is a decoded result row keyed by column name. Values are either
// nil (SQL NULL) or the coerced Go representation produced by the decoder.
type Record map[string]any

// Has reports whether the column is present in the record.
func (r Record) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// IsNull reports whether the column is present and NULL.
func (r Record) IsNull(column string) bool {
	v, ok := r[column]
	return ok && v == nil
}

// Int returns the column as int64, or 0 when absent, NULL or not numeric.
func (r Record) Int(column string) int64 {
	if v, ok := toInt64(r[column]); ok {
		return v
	}
	return 0
}

// Bool returns the column as bool, or false when absent or NULL.
func (r Record) Bool(column string) bool {
	if v, ok := toBool(r[column]); ok {
		return v
	}
	return false
}

// Float returns the column as float64, or 0 when absent, NULL or not numeric.
func (r Record) Float(column string) float64 {
	if v, ok := toFloat64(r[column]); ok {
		return v
	}
	return 0
}

// String returns the column as string, or "" when absent or NULL.
func (r Record) String(column string) string {
	if v, ok := toString(r[column]); ok {
		return v
	}
	return ""
}
