package report_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/memengine"
	"github.com/AntonStoeckl/movierental-go/report"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}

	return t
}

type fixture struct {
	ledger    rental.Ledger
	movies    rental.Movies
	customers rental.Customers
}

// givenRentalHistory seeds two customers, three movies and four rentals, evaluated on 2024-03-20:
// rental 1 Ada/Heat returned late, rental 2 Ada/Amelie open and 5 days overdue,
// rental 3 Alan/Heat open and not yet due, rental 4 Alan/Paris returned.
func givenRentalHistory(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	store := memengine.NewStore(rental.Producer{ID: 1, Name: "Warner"}, rental.Producer{ID: 2, Name: "Gaumont"})

	for _, c := range []rental.Customer{
		{ID: 1, Title: rental.TitleMs, FirstName: "Ada", LastName: "Lovelace", Phone: "0123456789", Email: "ada@example.org"},
		{ID: 2, Title: rental.TitleMr, FirstName: "Alan", LastName: "Turing", Phone: "9876543210", Email: "alan@example.org"},
	} {
		require.NoError(t, store.InsertCustomer(ctx, c), "error in arranging test data")
	}

	for _, m := range []rental.Movie{
		{ID: 1, Title: "Heat", ReleaseYear: 1995, Genre: rental.GenreAction, RentalPrice: decimal.NewFromInt(4), ProducerID: 1},
		{ID: 2, Title: "Amelie", ReleaseYear: 2001, Genre: rental.GenreComedy, RentalPrice: decimal.NewFromInt(2), ProducerID: 2},
		{ID: 3, Title: "Paris", ReleaseYear: 2008, Genre: rental.GenreComedy, RentalPrice: decimal.NewFromInt(3), ProducerID: 2},
	} {
		require.NoError(t, store.InsertMovie(ctx, m), "error in arranging test data")
	}

	returned := func(s string) *time.Time {
		d := day(s)
		return &d
	}

	for _, r := range []rental.Rental{
		{ID: 1, CustomerID: 1, MovieID: 1, IssueDate: day("2024-03-01"), DueDate: day("2024-03-04"), ReturnDate: returned("2024-03-06")},
		{ID: 2, CustomerID: 1, MovieID: 2, IssueDate: day("2024-03-08"), DueDate: day("2024-03-15")},
		{ID: 3, CustomerID: 2, MovieID: 1, IssueDate: day("2024-03-18"), DueDate: day("2024-03-25")},
		{ID: 4, CustomerID: 2, MovieID: 3, IssueDate: day("2024-03-02"), DueDate: day("2024-03-05"), ReturnDate: returned("2024-03-05")},
	} {
		require.NoError(t, store.InsertRental(ctx, rental.Rental{
			ID: r.ID, CustomerID: r.CustomerID, MovieID: r.MovieID, IssueDate: r.IssueDate, DueDate: r.DueDate,
		}), "error in arranging test data")

		if r.ReturnDate != nil {
			require.NoError(t, store.CloseRental(ctx, r.ID, *r.ReturnDate), "error in arranging test data")
		}
	}

	ledger, err := rental.NewLedger(store, rental.WithClock(func() time.Time { return day("2024-03-20") }))
	require.NoError(t, err)

	movies, err := rental.NewMovies(store)
	require.NoError(t, err)

	customers, err := rental.NewCustomers(store)
	require.NoError(t, err)

	return fixture{ledger: ledger, movies: movies, customers: customers}
}

func generatorFor(t *testing.T, f fixture) report.Generator {
	t.Helper()

	g, err := report.NewGenerator(f.ledger, f.movies, f.customers, func() time.Time {
		return time.Date(2024, 3, 20, 14, 5, 9, 0, time.UTC)
	})
	require.NoError(t, err)

	return g
}

func Test_Generator_Movies(t *testing.T) {
	// arrange
	g := generatorFor(t, givenRentalHistory(t))

	// act
	r, err := g.Movies(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, r.Movies, 3)
	assert.Equal(t, "Heat", r.Movies[0].Title, "ordered by total rentals")
	assert.Equal(t, 2, r.Movies[0].TotalRentals)
	assert.True(t, r.Movies[0].CurrentlyRented)
	assert.Equal(t, "Warner", r.Movies[0].Producer)

	require.Len(t, r.Genres, 2, "genres without movies are omitted")
	assert.Equal(t, rental.GenreAction, r.Genres[0].Genre)
	assert.Equal(t, rental.GenreComedy, r.Genres[1].Genre)
	assert.Equal(t, 2, r.Genres[1].Movies)
	assert.Equal(t, 2, r.Genres[1].Rentals)
	assert.True(t, decimal.NewFromFloat(2.5).Equal(r.Genres[1].AveragePrice))
	assert.Len(t, r.TopRented, 3)
}

func Test_Generator_Customers(t *testing.T) {
	// arrange
	g := generatorFor(t, givenRentalHistory(t))

	// act
	r, err := g.Customers(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, r.Customers, 2)

	ada := r.Customers[0]
	assert.Equal(t, "Ada Lovelace", ada.FullName)
	assert.Equal(t, 2, ada.TotalRentals)
	assert.Equal(t, 1, ada.ActiveRentals)
	assert.True(t, decimal.NewFromInt(10).Equal(ada.PendingLateFees), "only the open overdue rental accrues: 5 days * 2")

	alan := r.Customers[1]
	assert.True(t, alan.PendingLateFees.IsZero(), "returned late fees are settled, open rental not due")

	require.Len(t, r.WithPendingFees, 1)
	assert.Equal(t, int64(1), r.WithPendingFees[0].ID)
}

func Test_Generator_Rentals(t *testing.T) {
	// arrange
	g := generatorFor(t, givenRentalHistory(t))

	// act
	r, err := g.Rentals(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, r.CurrentlyRented, 2)
	assert.Equal(t, int64(2), r.CurrentlyRented[0].RentalID, "ordered by due date")
	assert.Equal(t, int64(3), r.CurrentlyRented[1].RentalID)
	assert.Zero(t, r.CurrentlyRented[1].DaysOverdue)

	require.Len(t, r.Overdue, 1)
	assert.Equal(t, 5, r.Overdue[0].DaysOverdue)
	assert.True(t, decimal.NewFromInt(10).Equal(r.Overdue[0].LateFee))

	require.Len(t, r.Genres, 2)
	assert.Equal(t, 2, r.Genres[0].Total)
	assert.Equal(t, 1, r.Genres[0].Active)
	assert.Equal(t, 1, r.Genres[0].Completed)

	require.Len(t, r.TopProducers, 2)
	assert.Equal(t, "Gaumont", r.TopProducers[0].Producer, "equal rental counts order by name")
	assert.True(t, decimal.NewFromInt(5).Equal(r.TopProducers[0].Revenue), "Amelie 2 plus Paris 3")
	assert.Equal(t, "Warner", r.TopProducers[1].Producer)
	assert.Equal(t, 2, r.TopProducers[1].TotalRentals)
	assert.True(t, decimal.NewFromInt(8).Equal(r.TopProducers[1].Revenue), "Heat twice at 4")
}

func Test_WriteXLSX(t *testing.T) {
	// arrange
	g := generatorFor(t, givenRentalHistory(t))
	r, err := g.Rentals(context.Background())
	require.NoError(t, err, "error in arranging test data")
	dir := filepath.Join(t.TempDir(), "reports")

	// act
	path, err := report.WriteXLSX(dir, r.Workbook())

	// assert
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Rental_Report_20240320_140509.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Currently Rented", "Overdue Rentals", "Statistics by Genre", "Top Producers"}, f.GetSheetList())

	rows, err := f.GetRows("Overdue Rentals")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one overdue rental")
	assert.Equal(t, "IssueID", rows[0][0])
	assert.Equal(t, "Amelie", rows[1][4])
	assert.Equal(t, "2024-03-15", rows[1][7])
	assert.Equal(t, "5", rows[1][8])
}

func Test_WriteXLSX_EmptyWorkbook(t *testing.T) {
	_, err := report.WriteXLSX(t.TempDir(), report.Workbook{Kind: "Movie"})

	assert.ErrorIs(t, err, report.ErrEmptyWorkbook)
}

func Test_WriteJSON(t *testing.T) {
	// arrange
	g := generatorFor(t, givenRentalHistory(t))
	r, err := g.Customers(context.Background())
	require.NoError(t, err, "error in arranging test data")

	var out bytes.Buffer

	// act
	err = report.WriteJSON(&out, r)

	// assert
	require.NoError(t, err)

	var decoded struct {
		Customers []struct {
			FullName        string `json:"full_name"`
			PendingLateFees string `json:"pending_late_fees"`
		} `json:"customers"`
	}
	require.NoError(t, jsoniter.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Customers, 2)
	assert.Equal(t, "Ada Lovelace", decoded.Customers[0].FullName)
	assert.Equal(t, "10", decoded.Customers[0].PendingLateFees)
}

func Test_NewGenerator_NilSource(t *testing.T) {
	_, err := report.NewGenerator(nil, nil, nil, nil)

	assert.ErrorIs(t, err, report.ErrNilSource)
}
