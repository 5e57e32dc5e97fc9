package postgresengine

import (
	"context"
	"time"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/postgresengine/internal/adapters"
)

// Storage is the narrow query interface the Store is built on:
// Execute for mutations, QueryAll and QueryOne for reads.
// Statements are parameterized; params are bound by the driver.
// Errors are returned as reported by the driver, classification happens in the Store.
type Storage struct {
	db               adapters.DBAdapter
	logger           rental.Logger
	contextualLogger rental.ContextualLogger
}

// Execute runs a mutation and returns the number of affected rows.
func (s Storage) Execute(ctx context.Context, statement string, params ...any) (int64, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, statement, params...)
	s.logQueryWithDuration(ctx, statement, logActionExecute, time.Since(start))

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, statement)

		return 0, execErr
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, err, logAttrQuery, statement)

		return 0, err
	}

	return rowsAffected, nil
}

// QueryAll runs a read and materializes every row.
func (s Storage) QueryAll(ctx context.Context, statement string, params ...any) ([]Row, error) {
	start := time.Now()
	rows, queryErr := s.db.Query(ctx, statement, params...)
	if queryErr != nil {
		s.logQueryWithDuration(ctx, statement, logActionQuery, time.Since(start))
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, statement)

		return nil, queryErr
	}

	defer s.closeRows(ctx, rows)

	result, err := s.collect(rows)
	s.logQueryWithDuration(ctx, statement, logActionQuery, time.Since(start))

	if err != nil {
		s.logError(ctx, logMsgScanRowFailed, err, logAttrQuery, statement)

		return nil, err
	}

	return result, nil
}

// QueryOne runs a read and returns its first row; found is false when there is none.
func (s Storage) QueryOne(ctx context.Context, statement string, params ...any) (row Row, found bool, err error) {
	rows, err := s.QueryAll(ctx, statement, params...)
	if err != nil {
		return nil, false, err
	}

	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0], true, nil
}

func (s Storage) collect(rows adapters.DBRows) ([]Row, error) {
	var columns []string

	result := make([]Row, 0)

	for rows.Next() {
		if columns == nil {
			var columnsErr error
			if columns, columnsErr = rows.Columns(); columnsErr != nil {
				return nil, columnsErr
			}
		}

		values, valuesErr := rows.Values()
		if valuesErr != nil {
			return nil, valuesErr
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s Storage) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, err)
	}
}
