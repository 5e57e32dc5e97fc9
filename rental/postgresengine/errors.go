package postgresengine

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const pgUniqueViolation = "23505"

var (
	// ErrNilDatabaseConnection is returned when a nil connection is supplied to a factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrNilLogger is returned when a nil logger is supplied to WithLogger or WithContextualLogger.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrBuildingQueryFailed is returned when goqu fails to render a statement.
	ErrBuildingQueryFailed = errors.New("building sql statement failed")
)

// uniqueViolation returns the violated constraint name if err is a unique violation reported by pgx or lib/pq.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return pqErr.Constraint, true
	}

	return "", false
}

// classify maps a driver error to the rental error taxonomy.
// A primary key collision is an identifier race and maps to rental.ErrConcurrencyConflict,
// the open-rental index maps to rental.ErrConflict, everything else is a storage failure.
func classify(err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case constraintCustomerPK, constraintMoviePK, constraintProducerPK, constraintIssuePK:
			return errors.Join(rental.ErrConcurrencyConflict, err)
		case constraintOpenRentalPerMovie:
			return errors.Join(rental.ErrConflict, err)
		}
	}

	return errors.Join(rental.ErrStorage, err)
}
