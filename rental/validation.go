package rental

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	FieldTitle       = "title"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldMovieTitle  = "movie_title"
	FieldReleaseYear = "release_year"
	FieldGenre       = "genre"
	FieldRentalPrice = "rental_price"
	FieldProducer    = "producer_id"
	FieldPeriod      = "period_days"

	tagPhone = "len=10,number"
	tagEmail = "contains=@,contains=."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// CustomerInput is the raw form input for adding or updating a customer.
type CustomerInput struct {
	Title     string `json:"title" validate:"required,oneof=Mr Mrs Ms Dr Prof"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"len=10,number"`
	Email     string `json:"email" validate:"contains=@,contains=."`
}

// Validate trims every field, applies the acceptance rules and returns the customer without an id.
func (in CustomerInput) Validate() (Customer, error) {
	in = CustomerInput{
		Title:     strings.TrimSpace(in.Title),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}

	if err := validate.Struct(in); err != nil {
		return Customer{}, toValidationError(err)
	}

	return Customer{
		Title:     Title(in.Title),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
	}, nil
}

// MovieInput is the raw form input for adding or updating a movie.
// Numeric fields are kept as text so that parse failures are reported per field.
type MovieInput struct {
	Title       string `json:"movie_title" validate:"required"`
	ReleaseYear string `json:"release_year" validate:"required"`
	Genre       string `json:"genre" validate:"required,oneof=Action Comedy Drama"`
	RentalPrice string `json:"rental_price" validate:"required"`
	ProducerID  string `json:"producer_id" validate:"required"`
}

// Validate trims every field, applies the acceptance rules and returns the movie without an id.
// It does not check that the producer exists.
func (in MovieInput) Validate() (Movie, error) {
	in = MovieInput{
		Title:       strings.TrimSpace(in.Title),
		ReleaseYear: strings.TrimSpace(in.ReleaseYear),
		Genre:       strings.TrimSpace(in.Genre),
		RentalPrice: strings.TrimSpace(in.RentalPrice),
		ProducerID:  strings.TrimSpace(in.ProducerID),
	}

	if err := validate.Struct(in); err != nil {
		return Movie{}, toValidationError(err)
	}

	year, err := ParseYear(in.ReleaseYear)
	if err != nil {
		return Movie{}, err
	}

	price, err := ParsePrice(in.RentalPrice)
	if err != nil {
		return Movie{}, err
	}

	producerID, err := strconv.ParseInt(in.ProducerID, 10, 64)
	if err != nil || producerID <= 0 {
		return Movie{}, invalid(FieldProducer, "must be a positive integer")
	}

	return Movie{
		Title:       in.Title,
		ReleaseYear: year,
		Genre:       Genre(in.Genre),
		RentalPrice: price,
		ProducerID:  producerID,
	}, nil
}

// ValidatePhone accepts exactly 10 decimal digits.
func ValidatePhone(phone string) error {
	if err := validate.Var(phone, tagPhone); err != nil {
		return invalid(FieldPhone, "must be exactly 10 digits")
	}

	return nil
}

// ValidateEmail accepts any text containing both '@' and '.'.
func ValidateEmail(email string) error {
	if err := validate.Var(email, tagEmail); err != nil {
		return invalid(FieldEmail, "must contain '@' and '.'")
	}

	return nil
}

// RequireNonEmpty rejects values that are empty after trimming surrounding whitespace.
func RequireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}

	return nil
}

// ParseYear parses a release year.
func ParseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid(FieldReleaseYear, "must be an integer")
	}

	return year, nil
}

// ParsePrice parses a non-negative rental price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, invalid(FieldRentalPrice, "must be a decimal number")
	}

	if price.IsNegative() {
		return decimal.Zero, invalid(FieldRentalPrice, "must not be negative")
	}

	return price, nil
}

// ParsePeriod parses a rental period in days, which must be greater than 0.
func ParsePeriod(raw string) (int, error) {
	period, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid(FieldPeriod, "must be an integer")
	}

	return period, ValidatePeriod(period)
}

// ValidatePeriod rejects rental periods that are not positive.
func ValidatePeriod(periodDays int) error {
	if periodDays <= 0 {
		return invalid(FieldPeriod, "must be greater than 0")
	}

	return nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Join(ErrValidation, err)
	}

	fe := fieldErrs[0]

	return invalid(fe.Field(), reasonFor(fe))
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Field() {
	case FieldPhone:
		return "must be exactly 10 digits"
	case FieldEmail:
		return "must contain '@' and '.'"
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
