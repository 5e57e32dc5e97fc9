package adapters

import "database/sql"

// stdRows wraps standard library sql.Rows to implement the DBRows interface.
type stdRows struct {
	rows    *sql.Rows
	columns []string
}

// Columns returns the column names of the result set.
func (s *stdRows) Columns() ([]string, error) {
	if s.columns == nil {
		columns, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}

		s.columns = columns
	}

	return s.columns, nil
}

// Next advances to the next row.
func (s *stdRows) Next() bool {
	return s.rows.Next()
}

// Values scans the current row into generic destinations.
func (s *stdRows) Values() ([]any, error) {
	columns, err := s.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	if err = s.rows.Scan(dest...); err != nil {
		return nil, err
	}

	return values, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (s *stdRows) Err() error {
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps standard library sql.Result to implement the DBResult interface.
type stdResult struct {
	result sql.Result
}

// RowsAffected returns the number of rows affected by the command.
func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}
