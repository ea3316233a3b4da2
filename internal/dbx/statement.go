package dbx

import (
	"database/sql"
	"fmt"
)

// Statement is the handle for an executed select. It yields decoded rows one
// at a time in the order the database returned them; it never rewinds.
type Statement struct {
	rows    *sql.Rows
	dec     *decoder
	columns []string
	plan    []coercion
	count   int
	done    bool
}

func newStatement(rows *sql.Rows, dec *decoder) (*Statement, error) {
	columns, plan, err := dec.plan(rows)
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("read column metadata: %w", err)
	}
	return &Statement{rows: rows, dec: dec, columns: columns, plan: plan}, nil
}

// Next returns the next decoded row, or (nil, nil) once the result set is
// exhausted. The underlying rows are closed automatically at the end.
func (s *Statement) Next() (Record, error) {
	if s.done {
		return nil, nil
	}
	if !s.rows.Next() {
		s.done = true
		err := s.rows.Err()
		_ = s.rows.Close()
		if err != nil {
			return nil, fmt.Errorf("row iteration: %w", err)
		}
		return nil, nil
	}

	values := make([]any, len(s.columns))
	ptrs := make([]any, len(s.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		_ = s.rows.Close()
		s.done = true
		return nil, fmt.Errorf("scan row: %w", err)
	}

	s.count++
	return s.dec.decode(s.columns, s.plan, values), nil
}

// All drains the remaining rows.
func (s *Statement) All() ([]Record, error) {
	var result []Record
	for {
		record, err := s.Next()
		if err != nil {
			return nil, err
		}
		if record == nil {
			return result, nil
		}
		result = append(result, record)
	}
}

// Count reports the number of rows decoded so far.
func (s *Statement) Count() int {
	return s.count
}

// Close releases the statement early. Safe to call after exhaustion.
func (s *Statement) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.rows.Close()
}
