package rental_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/memengine"
	"github.com/AntonStoeckl/movierental-go/testutil/helper"
)

func Test_Customers_Add_AssignsNextID(t *testing.T) {
	// arrange
	ctx := context.Background()
	logHandler := helper.NewTestLogHandler(false)
	customers, err := rental.NewCustomers(seededStore(t), rental.WithLogger(slog.New(logHandler)))
	require.NoError(t, err)

	// act
	added, err := customers.Add(ctx, validCustomerInput())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(9), added.ID, "seeded customers are 7 and 8")
	assert.Equal(t, "Grace", added.FirstName)
	assert.True(t, logHandler.HasInfoLogWithMessage("rental operation: add customer").Assert())

	stored, err := customers.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, stored)
}

func Test_Customers_Add_InvalidInputPersistsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := seededStore(t)
	customers, err := rental.NewCustomers(store)
	require.NoError(t, err)

	in := validCustomerInput()
	in.Phone = "123"

	// act
	_, err = customers.Add(ctx, in)

	// assert
	assert.ErrorIs(t, err, rental.ErrValidation)
	maxID, _ := store.MaxID(ctx, rental.KindCustomer)
	assert.Equal(t, int64(8), maxID)
}

func Test_Customers_Update(t *testing.T) {
	// arrange
	ctx := context.Background()
	customers, err := rental.NewCustomers(seededStore(t))
	require.NoError(t, err)

	// act
	updated, err := customers.Update(ctx, 7, validCustomerInput())
	_, missingErr := customers.Update(ctx, 99, validCustomerInput())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, "Hopper", updated.LastName)
	assert.ErrorIs(t, missingErr, rental.ErrNotFound)
}

func Test_Customers_Delete_BlockedByOpenRental(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := seededStore(t)
	ledger := newLedger(t, store, clockAt("2024-01-01"))
	customers, err := rental.NewCustomers(store)
	require.NoError(t, err)

	issued, err := ledger.Issue(ctx, 7, 3, 7)
	require.NoError(t, err, "error in arranging test data")

	// act
	blockedErr := customers.Delete(ctx, 7)

	_, err = ledger.Return(ctx, issued.ID)
	require.NoError(t, err, "error in arranging test data")

	allowedErr := customers.Delete(ctx, 7)

	// assert
	assert.ErrorIs(t, blockedErr, rental.ErrConflict)
	assert.NoError(t, allowedErr, "only closed rentals reference the customer")

	_, err = customers.Get(ctx, 7)
	assert.ErrorIs(t, err, rental.ErrNotFound)

	history, err := ledger.List(ctx, rental.BuildRentalFilter().Finalize())
	require.NoError(t, err)
	require.Len(t, history, 1, "the closed rental is kept")
	assert.Empty(t, history[0].CustomerName)
	assert.Equal(t, rental.StatusReturned, history[0].Status)
}

func Test_Customers_Delete_Unknown(t *testing.T) {
	// arrange
	customers, err := rental.NewCustomers(seededStore(t))
	require.NoError(t, err)

	// act
	err = customers.Delete(context.Background(), 99)

	// assert
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func Test_Customers_Search(t *testing.T) {
	// arrange
	ctx := context.Background()
	customers, err := rental.NewCustomers(seededStore(t))
	require.NoError(t, err)

	// act
	byFirstName, err := customers.Search(ctx, rental.CustomerFilter{NameContains: " ALAN "})
	require.NoError(t, err)

	byLastName, err := customers.Search(ctx, rental.CustomerFilter{NameContains: "love"})
	require.NoError(t, err)

	byID, err := customers.Search(ctx, rental.CustomerFilter{ID: 8})
	require.NoError(t, err)

	all, err := customers.Search(ctx, rental.CustomerFilter{})
	require.NoError(t, err)

	// assert
	require.Len(t, byFirstName, 1)
	assert.Equal(t, int64(8), byFirstName[0].ID)
	require.Len(t, byLastName, 1)
	assert.Equal(t, int64(7), byLastName[0].ID)
	require.Len(t, byID, 1)
	assert.Equal(t, "Turing", byID[0].LastName)
	require.Len(t, all, 2)
	assert.Equal(t, int64(7), all[0].ID, "ordered by id")
}

func Test_Movies_Add_RequiresExistingProducer(t *testing.T) {
	// arrange
	ctx := context.Background()
	movies, err := rental.NewMovies(seededStore(t))
	require.NoError(t, err)

	in := validMovieInput()
	in.ProducerID = "2"

	// act
	_, missingErr := movies.Add(ctx, in)
	added, err := movies.Add(ctx, validMovieInput())

	// assert
	assert.ErrorIs(t, missingErr, rental.ErrNotFound)
	require.NoError(t, err)
	assert.Equal(t, int64(5), added.ID)
	assert.Equal(t, "Warner", added.ProducerName)
}

func Test_Movies_Delete_BlockedWhileOnLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := seededStore(t)
	ledger := newLedger(t, store, clockAt("2024-01-01"))
	movies, err := rental.NewMovies(store)
	require.NoError(t, err)

	issued, err := ledger.Issue(ctx, 7, 3, 7)
	require.NoError(t, err, "error in arranging test data")

	// act
	blockedErr := movies.Delete(ctx, 3)

	_, err = ledger.Return(ctx, issued.ID)
	require.NoError(t, err, "error in arranging test data")

	allowedErr := movies.Delete(ctx, 3)

	// assert
	assert.ErrorIs(t, blockedErr, rental.ErrConflict)
	assert.NoError(t, allowedErr)
}

func Test_Movies_Update(t *testing.T) {
	// arrange
	ctx := context.Background()
	movies, err := rental.NewMovies(seededStore(t))
	require.NoError(t, err)

	// act
	updated, err := movies.Update(ctx, 3, validMovieInput())
	_, missingErr := movies.Update(ctx, 99, validMovieInput())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.ID)
	assert.Equal(t, "Alien", updated.Title)
	assert.ErrorIs(t, missingErr, rental.ErrNotFound)
}

func Test_Movies_SearchAndAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := seededStore(t)
	ledger := newLedger(t, store, clockAt("2024-01-01"))
	movies, err := rental.NewMovies(store)
	require.NoError(t, err)

	_, err = ledger.Issue(ctx, 7, 3, 7)
	require.NoError(t, err, "error in arranging test data")

	minPrice := decimal.NewFromInt(3)

	// act
	byGenre, err := movies.Search(ctx, rental.MovieFilter{Genre: rental.GenreComedy})
	require.NoError(t, err)

	byPrice, err := movies.Search(ctx, rental.MovieFilter{PriceMin: &minPrice})
	require.NoError(t, err)

	byYearAndTitle, err := movies.Search(ctx, rental.MovieFilter{Year: 1995, TitleContains: "he"})
	require.NoError(t, err)

	available, err := movies.Available(ctx)
	require.NoError(t, err)

	// assert
	require.Len(t, byGenre, 1)
	assert.Equal(t, int64(4), byGenre[0].ID)
	require.Len(t, byPrice, 1)
	assert.Equal(t, int64(3), byPrice[0].ID)
	require.Len(t, byYearAndTitle, 1)
	assert.Equal(t, "Warner", byYearAndTitle[0].ProducerName)
	require.Len(t, available, 1, "movie 3 is on loan")
	assert.Equal(t, "Amelie", available[0].Title)
}

func Test_Producers_ListOrderedByName(t *testing.T) {
	// arrange
	store := memengine.NewStore(
		rental.Producer{ID: 1, Name: "Warner"},
		rental.Producer{ID: 2, Name: "Gaumont"},
	)
	producers, err := rental.NewProducers(store)
	require.NoError(t, err)

	// act
	list, err := producers.List(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Gaumont", list[0].Name)

	_, err = producers.Get(context.Background(), 3)
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func Test_Guard_And_Allocator(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := seededStore(t)
	ledger := newLedger(t, store, clockAt("2024-01-01"))

	_, err := ledger.Issue(ctx, 7, 3, 7)
	require.NoError(t, err, "error in arranging test data")

	guard, err := rental.NewGuard(store)
	require.NoError(t, err)

	// act + assert
	onLoan, err := guard.IsMovieOnLoan(ctx, 3)
	require.NoError(t, err)
	assert.True(t, onLoan)

	canDelete, err := guard.CanDeleteMovie(ctx, 4)
	require.NoError(t, err)
	assert.True(t, canDelete)

	active, err := guard.IsCustomerActive(ctx, 7)
	require.NoError(t, err)
	assert.True(t, active)

	canDelete, err = guard.CanDeleteCustomer(ctx, 8)
	require.NoError(t, err)
	assert.True(t, canDelete)
}

func Test_Allocator_NextID_DerivedFromCurrentMax(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	allocator, err := rental.NewAllocator(store)
	require.NoError(t, err)

	first, err := allocator.NextID(ctx, rental.KindCustomer)
	require.NoError(t, err)

	for id := int64(1); id <= 3; id++ {
		require.NoError(t, store.InsertCustomer(ctx, rental.Customer{ID: id}), "error in arranging test data")
	}

	require.NoError(t, store.DeleteCustomer(ctx, 2), "error in arranging test data")

	// act
	next, err := allocator.NextID(ctx, rental.KindCustomer)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), first, "first id is 1")
	assert.Equal(t, int64(4), next, "deleted ids are never reused")
}

func Test_NewCatalogs_NilStore(t *testing.T) {
	_, err := rental.NewCustomers(nil)
	assert.ErrorIs(t, err, rental.ErrNilStore)

	_, err = rental.NewMovies(nil)
	assert.ErrorIs(t, err, rental.ErrNilStore)

	_, err = rental.NewGuard(nil)
	assert.ErrorIs(t, err, rental.ErrNilStore)

	_, err = rental.NewAllocator(nil)
	assert.ErrorIs(t, err, rental.ErrNilStore)
}
