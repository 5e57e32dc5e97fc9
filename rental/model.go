package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind names the entity types that receive sequential identifiers.
type EntityKind string

const (
	KindCustomer EntityKind = "customer"
	KindMovie    EntityKind = "movie"
	KindProducer EntityKind = "producer"
	KindRental   EntityKind = "rental"
)

// Title is the salutation of a Customer.
type Title string

const (
	TitleMr   Title = "Mr"
	TitleMrs  Title = "Mrs"
	TitleMs   Title = "Ms"
	TitleDr   Title = "Dr"
	TitleProf Title = "Prof"
)

// Titles lists all accepted customer titles in display order.
func Titles() []Title {
	return []Title{TitleMr, TitleMrs, TitleMs, TitleDr, TitleProf}
}

// Genre classifies a Movie.
type Genre string

const (
	GenreAction Genre = "Action"
	GenreComedy Genre = "Comedy"
	GenreDrama  Genre = "Drama"
)

// Genres lists all accepted movie genres in display order.
func Genres() []Genre {
	return []Genre{GenreAction, GenreComedy, GenreDrama}
}

// Customer is a person who rents movies.
type Customer struct {
	ID        int64  `json:"id"`
	Title     Title  `json:"title"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// FullName joins first and last name the way listings display it.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Producer is read-only reference data for movies.
type Producer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog entry that can be rented, one copy at a time.
type Movie struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	ReleaseYear int             `json:"release_year"`
	Genre       Genre           `json:"genre"`
	RentalPrice decimal.Decimal `json:"rental_price"`
	ProducerID  int64           `json:"producer_id"`
}

// MovieView is a Movie joined with its producer's name, which is empty when the producer row is missing.
type MovieView struct {
	Movie
	ProducerName string `json:"producer_name"`
}

// Rental records one movie issued to one customer.
// IssueDate and DueDate are immutable once created; ReturnDate is nil while the rental is open
// and is never cleared or changed after it was set.
type Rental struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	MovieID    int64      `json:"movie_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// IsOpen reports whether the rental has not been returned yet.
func (r Rental) IsOpen() bool {
	return r.ReturnDate == nil
}

// RentalRecord is a Rental joined with the display fields of its customer and movie.
// The names are empty when the referenced row was deleted after the rental was closed.
type RentalRecord struct {
	Rental
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email"`
	MovieTitle    string          `json:"movie_title"`
	MovieGenre    Genre           `json:"movie_genre"`
	RentalPrice   decimal.Decimal `json:"rental_price"`
}

// Listing is a RentalRecord together with its derived fields, computed at read time.
type Listing struct {
	RentalRecord
	Assessment
}
