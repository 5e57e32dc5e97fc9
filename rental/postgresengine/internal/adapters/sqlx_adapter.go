package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Query executes a query using the sqlx.DB and returns rows decoded with MapScan.
func (s *SQLXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &sqlxRows{rows: rows}, nil
}

// Exec executes a statement using the sqlx.DB and returns wrapped result.
func (s *SQLXAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// sqlxRows wraps sqlx.Rows to implement the DBRows interface.
type sqlxRows struct {
	rows    *sqlx.Rows
	columns []string
}

// Columns returns the column names of the result set.
func (s *sqlxRows) Columns() ([]string, error) {
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
func (s *sqlxRows) Next() bool {
	return s.rows.Next()
}

// Values returns the current row in column order.
func (s *sqlxRows) Values() ([]any, error) {
	columns, err := s.Columns()
	if err != nil {
		return nil, err
	}

	row := make(map[string]any, len(columns))
	if err = s.rows.MapScan(row); err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	for i, column := range columns {
		values[i] = row[column]
	}

	return values, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (s *sqlxRows) Err() error {
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *sqlxRows) Close() error {
	return s.rows.Close()
}
