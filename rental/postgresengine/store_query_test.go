package postgresengine

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movierental-go/rental"
)

func queryBuilder() Store {
	return Store{builder: goqu.Dialect(dialectPostgres)}
}

func Test_BuildRentalsQuery_BindsAllUserInput(t *testing.T) {
	// arrange
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	filter := rental.BuildRentalFilter().
		CustomerNameContains("ada'; DROP TABLE customer; --").
		MovieTitleContains("heat").
		IssuedOn(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
		WithStatus(rental.StatusOverdue).
		Finalize()

	// act
	sqlQuery, args, err := queryBuilder().buildRentalsQuery(filter, today).ToSQL()

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "DROP TABLE", "user input must never be interpolated")
	assert.Contains(t, args, "%ada'; DROP TABLE customer; --%")
	assert.Contains(t, args, "%heat%")
	assert.Contains(t, args, "2024-03-01")
	assert.Contains(t, args, "2024-03-10")
	assert.Contains(t, sqlQuery, "ILIKE $")
	assert.Contains(t, sqlQuery, `LEFT JOIN "customer" AS "c"`)
	assert.Contains(t, sqlQuery, `LEFT JOIN "movies" AS "m"`)
	assert.Contains(t, sqlQuery, `"r"."ReturnDate" IS NULL`)
	assert.Contains(t, sqlQuery, `"r"."dueDate" < $`)
	assert.Contains(t, sqlQuery, `ORDER BY "r"."IssueDate" DESC, "r"."IssueID" DESC`)
}

func Test_BuildRentalsQuery_StatusPredicates(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		status  rental.Status
		want    string
		notWant string
	}{
		{rental.StatusReturned, `"r"."ReturnDate" IS NOT NULL`, `"r"."dueDate" >= $`},
		{rental.StatusActive, `"r"."dueDate" >= $`, `"r"."ReturnDate" IS NOT NULL`},
		{rental.StatusOverdue, `"r"."dueDate" < $`, `"r"."ReturnDate" IS NOT NULL`},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			// arrange
			filter := rental.BuildRentalFilter().WithStatus(tc.status).Finalize()

			// act
			sqlQuery, _, err := queryBuilder().buildRentalsQuery(filter, today).ToSQL()

			// assert
			require.NoError(t, err)
			assert.Contains(t, sqlQuery, tc.want)
			assert.NotContains(t, sqlQuery, tc.notWant)
		})
	}
}

func Test_BuildRentalsQuery_OpenRentalsOldestFirst(t *testing.T) {
	// act
	sqlQuery, _, err := queryBuilder().buildRentalsQuery(rental.OpenRentalsFilter(), time.Now()).ToSQL()

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"r"."ReturnDate" IS NULL`)
	assert.Contains(t, sqlQuery, `ORDER BY "r"."IssueDate" ASC, "r"."IssueID" ASC`)
}

func Test_OpenRentals_ConditionalStatements(t *testing.T) {
	// arrange
	s := queryBuilder()

	// act
	sqlQuery, args, err := s.builder.
		Delete(tableMovies).
		Prepared(true).
		Where(
			goqu.C(colMovieID).Eq(int64(3)),
			goqu.L("NOT EXISTS ?", s.openRentals(goqu.I(aliasOpen+"."+colMovieID).Eq(int64(3)))),
		).
		ToSQL()

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `DELETE FROM "movies"`)
	assert.Contains(t, sqlQuery, "NOT EXISTS")
	assert.Contains(t, sqlQuery, `FROM "issuetran" AS "o"`)
	assert.Contains(t, sqlQuery, `"o"."ReturnDate" IS NULL`)
	assert.Equal(t, []any{int64(3), int64(3)}, args)
}

func Test_LikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, "%ada%", likePattern("ada"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}

func Test_FormatDate_UsesCalendarDate(t *testing.T) {
	// arrange
	lateEvening := time.Date(2024, 3, 10, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))

	// act + assert
	assert.Equal(t, "2024-03-10", formatDate(lateEvening))
}

func Test_KeyOf_UnknownKind(t *testing.T) {
	_, _, err := keyOf(rental.EntityKind("invoice"))

	assert.ErrorIs(t, err, ErrUnknownEntityKind)
}
