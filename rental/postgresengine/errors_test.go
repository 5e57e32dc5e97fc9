package postgresengine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/movierental-go/rental"
)

func Test_Classify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "pgx primary key collision",
			err:     &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintIssuePK},
			wantErr: rental.ErrConcurrencyConflict,
		},
		{
			name:    "pgx open rental index",
			err:     fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintOpenRentalPerMovie}),
			wantErr: rental.ErrConflict,
		},
		{
			name:    "pq primary key collision",
			err:     &pq.Error{Code: pgUniqueViolation, Constraint: constraintCustomerPK},
			wantErr: rental.ErrConcurrencyConflict,
		},
		{
			name:    "pq open rental index",
			err:     &pq.Error{Code: pgUniqueViolation, Constraint: constraintOpenRentalPerMovie},
			wantErr: rental.ErrConflict,
		},
		{
			name:    "unique violation on another constraint",
			err:     &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "something_else"},
			wantErr: rental.ErrStorage,
		},
		{
			name:    "check violation",
			err:     &pq.Error{Code: "23514", Constraint: "movies_RentalPrice_check"},
			wantErr: rental.ErrStorage,
		},
		{
			name:    "connection failure",
			err:     errors.New("connection refused"),
			wantErr: rental.ErrStorage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			classified := classify(tc.err)

			// assert
			assert.ErrorIs(t, classified, tc.wantErr)
			assert.ErrorIs(t, classified, tc.err, "the driver error stays inspectable")
		})
	}
}
