package rental

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerFilter narrows a customer search. Zero values impose no restriction.
// NameContains matches first OR last name case-insensitively.
type CustomerFilter struct {
	NameContains string
	ID           int64
}

// MovieFilter narrows a movie search. Zero values impose no restriction.
type MovieFilter struct {
	TitleContains string
	Genre         Genre
	Year          int
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
}

// IDSource reads the greatest persisted identifier of an entity kind, 0 when none exist.
type IDSource interface {
	MaxID(ctx context.Context, kind EntityKind) (int64, error)
}

// OpenRentalChecker answers the on-loan predicates against persisted state.
type OpenRentalChecker interface {
	HasOpenRentalForMovie(ctx context.Context, movieID int64) (bool, error)
	HasOpenRentalForCustomer(ctx context.Context, customerID int64) (bool, error)
}

// CustomerStore persists customers.
//
// InsertCustomer returns ErrConcurrencyConflict when the id is taken.
// UpdateCustomer returns ErrNotFound when the row does not exist.
// DeleteCustomer returns ErrNotFound, or ErrConflict when an open rental references the customer
// at the time of the delete statement.
type CustomerStore interface {
	InsertCustomer(ctx context.Context, customer Customer) error
	UpdateCustomer(ctx context.Context, customer Customer) error
	DeleteCustomer(ctx context.Context, customerID int64) error
	GetCustomer(ctx context.Context, customerID int64) (Customer, error)
	FindCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error)
}

// MovieStore persists movies. Error semantics follow CustomerStore.
type MovieStore interface {
	InsertMovie(ctx context.Context, movie Movie) error
	UpdateMovie(ctx context.Context, movie Movie) error
	DeleteMovie(ctx context.Context, movieID int64) error
	GetMovie(ctx context.Context, movieID int64) (MovieView, error)
	FindMovies(ctx context.Context, filter MovieFilter) ([]MovieView, error)
	AvailableMovies(ctx context.Context) ([]MovieView, error)
}

// ProducerStore reads the producer reference data.
type ProducerStore interface {
	ListProducers(ctx context.Context) ([]Producer, error)
	GetProducer(ctx context.Context, producerID int64) (Producer, error)
}

// RentalStore persists rentals.
//
// InsertRental must be atomic with respect to the exclusivity rule: it returns ErrConflict when
// the movie already has an open rental and ErrConcurrencyConflict when the id is taken.
// CloseRental sets the return date only if it is unset; it returns ErrNotFound or ErrAlreadyReturned otherwise.
// FindRentals evaluates status predicates against today.
type RentalStore interface {
	OpenRentalChecker
	InsertRental(ctx context.Context, rental Rental) error
	GetRental(ctx context.Context, rentalID int64) (Rental, error)
	CloseRental(ctx context.Context, rentalID int64, returnDate time.Time) error
	FindRentals(ctx context.Context, filter RentalFilter, today time.Time) ([]RentalRecord, error)
}

// Store is the full storage surface consumed by the ledger, the guard, the allocator and the catalogs.
// Every failure of the underlying storage is reported as an error matching ErrStorage.
type Store interface {
	IDSource
	CustomerStore
	MovieStore
	ProducerStore
	RentalStore
}
