package rental_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movierental-go/rental"
)

func validCustomerInput() rental.CustomerInput {
	return rental.CustomerInput{
		Title:     "Dr",
		FirstName: " Grace ",
		LastName:  "Hopper",
		Phone:     "0123456789",
		Email:     "grace@navy.mil",
	}
}

func validMovieInput() rental.MovieInput {
	return rental.MovieInput{
		Title:       " Alien ",
		ReleaseYear: "1979",
		Genre:       "Drama",
		RentalPrice: "3.99",
		ProducerID:  "1",
	}
}

func assertInvalidField(t *testing.T, err error, field string) {
	t.Helper()

	assert.ErrorIs(t, err, rental.ErrValidation)

	var validationErr rental.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected a ValidationError, got: %v", err)
	assert.Equal(t, field, validationErr.Field)
}

func Test_CustomerInput_Validate_TrimsAndAccepts(t *testing.T) {
	// act
	customer, err := validCustomerInput().Validate()

	// assert
	require.NoError(t, err)
	assert.Equal(t, rental.TitleDr, customer.Title)
	assert.Equal(t, "Grace", customer.FirstName)
	assert.Equal(t, int64(0), customer.ID)
}

func Test_CustomerInput_Validate_Rejects(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(in *rental.CustomerInput)
		field       string
	}{
		{"blank first name", func(in *rental.CustomerInput) { in.FirstName = "   " }, rental.FieldFirstName},
		{"blank last name", func(in *rental.CustomerInput) { in.LastName = "" }, rental.FieldLastName},
		{"missing title", func(in *rental.CustomerInput) { in.Title = " " }, rental.FieldTitle},
		{"unknown title", func(in *rental.CustomerInput) { in.Title = "Sir" }, rental.FieldTitle},
		{"short phone", func(in *rental.CustomerInput) { in.Phone = "012345678" }, rental.FieldPhone},
		{"long phone", func(in *rental.CustomerInput) { in.Phone = "01234567890" }, rental.FieldPhone},
		{"phone with letters", func(in *rental.CustomerInput) { in.Phone = "01234t6789" }, rental.FieldPhone},
		{"phone with sign", func(in *rental.CustomerInput) { in.Phone = "-123456789" }, rental.FieldPhone},
		{"email without at", func(in *rental.CustomerInput) { in.Email = "grace.navy.mil" }, rental.FieldEmail},
		{"email without dot", func(in *rental.CustomerInput) { in.Email = "grace@navy" }, rental.FieldEmail},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			in := validCustomerInput()
			tc.mutate(&in)

			// act
			_, err := in.Validate()

			// assert
			assertInvalidField(t, err, tc.field)
		})
	}
}

func Test_MovieInput_Validate_ParsesFields(t *testing.T) {
	// act
	movie, err := validMovieInput().Validate()

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, 1979, movie.ReleaseYear)
	assert.Equal(t, rental.GenreDrama, movie.Genre)
	assert.Equal(t, "3.99", movie.RentalPrice.StringFixed(2))
	assert.Equal(t, int64(1), movie.ProducerID)
}

func Test_MovieInput_Validate_AcceptsFreeMovie(t *testing.T) {
	// arrange
	in := validMovieInput()
	in.RentalPrice = "0"

	// act
	movie, err := in.Validate()

	// assert
	require.NoError(t, err)
	assert.True(t, movie.RentalPrice.IsZero())
}

func Test_MovieInput_Validate_Rejects(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(in *rental.MovieInput)
		field       string
	}{
		{"blank title", func(in *rental.MovieInput) { in.Title = " " }, rental.FieldMovieTitle},
		{"missing year", func(in *rental.MovieInput) { in.ReleaseYear = "" }, rental.FieldReleaseYear},
		{"year not an integer", func(in *rental.MovieInput) { in.ReleaseYear = "19x9" }, rental.FieldReleaseYear},
		{"unknown genre", func(in *rental.MovieInput) { in.Genre = "Horror" }, rental.FieldGenre},
		{"price not a number", func(in *rental.MovieInput) { in.RentalPrice = "cheap" }, rental.FieldRentalPrice},
		{"negative price", func(in *rental.MovieInput) { in.RentalPrice = "-0.01" }, rental.FieldRentalPrice},
		{"missing producer", func(in *rental.MovieInput) { in.ProducerID = "" }, rental.FieldProducer},
		{"producer not an id", func(in *rental.MovieInput) { in.ProducerID = "Warner" }, rental.FieldProducer},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			in := validMovieInput()
			tc.mutate(&in)

			// act
			_, err := in.Validate()

			// assert
			assertInvalidField(t, err, tc.field)
		})
	}
}

func Test_ValidatePhone(t *testing.T) {
	assert.NoError(t, rental.ValidatePhone("5551234567"))
	assertInvalidField(t, rental.ValidatePhone("555 123 45"), rental.FieldPhone)
	assertInvalidField(t, rental.ValidatePhone(""), rental.FieldPhone)
}

func Test_ValidateEmail_IsIntentionallyWeak(t *testing.T) {
	assert.NoError(t, rental.ValidateEmail("a@b.c"))
	assert.NoError(t, rental.ValidateEmail(".@"), "only the presence of '@' and '.' is checked")
	assertInvalidField(t, rental.ValidateEmail("nobody"), rental.FieldEmail)
}

func Test_RequireNonEmpty(t *testing.T) {
	assert.NoError(t, rental.RequireNonEmpty(rental.FieldFirstName, "x"))
	assertInvalidField(t, rental.RequireNonEmpty(rental.FieldFirstName, " \t\n"), rental.FieldFirstName)
}

func Test_ParsePeriod(t *testing.T) {
	// act
	period, err := rental.ParsePeriod(" 14 ")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 14, period)

	_, err = rental.ParsePeriod("0")
	assertInvalidField(t, err, rental.FieldPeriod)

	_, err = rental.ParsePeriod("a week")
	assertInvalidField(t, err, rental.FieldPeriod)
}

func Test_ParsePrice(t *testing.T) {
	price, err := rental.ParsePrice("2.50")
	require.NoError(t, err)
	assert.Equal(t, "2.50", price.StringFixed(2))

	_, err = rental.ParsePrice("-1")
	assertInvalidField(t, err, rental.FieldRentalPrice)
}

func Test_ValidationError_Message(t *testing.T) {
	// act
	_, err := rental.ParseYear("soon")

	// assert
	assert.EqualError(t, err, "validation failed: release_year: must be an integer")
}
