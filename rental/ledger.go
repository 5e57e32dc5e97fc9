package rental

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Ledger owns the rental records: it issues and closes rentals and derives their status and late fees.
type Ledger struct {
	store     Store
	guard     Guard
	allocator Allocator
	settings
}

// NewLedger creates a Ledger on top of store with optional configuration.
func NewLedger(store Store, options ...Option) (Ledger, error) {
	if store == nil {
		return Ledger{}, ErrNilStore
	}

	s, err := newSettings(options)
	if err != nil {
		return Ledger{}, err
	}

	return Ledger{
		store:     store,
		guard:     Guard{checker: store},
		allocator: Allocator{ids: store},
		settings:  s,
	}, nil
}

// Guard returns the guard the Ledger consults.
func (l Ledger) Guard() Guard {
	return l.guard
}

// Issue rents movieID to customerID for periodDays, starting today.
//
// It fails with ErrValidation if periodDays <= 0, with ErrNotFound if the customer or the movie
// does not exist, and with ErrConflict if the movie already has an open rental.
// The exclusivity check is repeated atomically by the store, so a concurrent Issue for the same movie
// also ends in ErrConflict.
func (l Ledger) Issue(ctx context.Context, customerID, movieID int64, periodDays int) (Rental, error) {
	if err := ValidatePeriod(periodDays); err != nil {
		return Rental{}, err
	}

	if _, err := l.store.GetCustomer(ctx, customerID); err != nil {
		return Rental{}, err
	}

	if _, err := l.store.GetMovie(ctx, movieID); err != nil {
		return Rental{}, err
	}

	if err := l.guard.requireMovieAvailable(ctx, movieID); err != nil {
		return Rental{}, err
	}

	opID := newOperationID()
	issueDate := l.today()

	var rental Rental

	meta, err := retry(ctx, l.retries, func(ctx context.Context) error {
		id, allocErr := l.allocator.NextID(ctx, KindRental)
		if allocErr != nil {
			return allocErr
		}

		rental = Rental{
			ID:         id,
			CustomerID: customerID,
			MovieID:    movieID,
			IssueDate:  issueDate,
			DueDate:    DueDateFor(issueDate, periodDays),
		}

		return l.store.InsertRental(ctx, rental)
	})

	l.logRetries(ctx, logActionIssue, meta)

	if err != nil {
		l.logError(ctx, logActionIssue, err, logAttrOperationID, opID, logAttrCustomerID, customerID, logAttrMovieID, movieID)

		return Rental{}, err
	}

	l.logOperation(
		ctx,
		logActionIssue,
		logAttrOperationID, opID,
		logAttrRentalID, rental.ID,
		logAttrCustomerID, customerID,
		logAttrMovieID, movieID,
		logAttrDueDate, rental.DueDate.Format(dateLayout),
	)

	return rental, nil
}

// Return closes rentalID today and settles its late fee.
//
// It fails with ErrNotFound if the rental does not exist and with ErrAlreadyReturned if it was closed before.
// A second Return is never a no-op.
func (l Ledger) Return(ctx context.Context, rentalID int64) (Settlement, error) {
	rental, err := l.store.GetRental(ctx, rentalID)
	if err != nil {
		return Settlement{}, err
	}

	if !rental.IsOpen() {
		return Settlement{}, alreadyReturned(rentalID)
	}

	returnDate := l.today()

	if err = l.store.CloseRental(ctx, rentalID, returnDate); err != nil {
		l.logError(ctx, logActionReturn, err, logAttrRentalID, rentalID)

		return Settlement{}, err
	}

	rental.ReturnDate = &returnDate
	assessment := Assess(rental, returnDate)

	l.logOperation(
		ctx,
		logActionReturn,
		logAttrRentalID, rentalID,
		logAttrDaysLate, assessment.DaysLate,
		logAttrLateFee, assessment.LateFee.StringFixed(2),
	)

	return Settlement{
		RentalID:   rentalID,
		ReturnDate: returnDate,
		DaysLate:   assessment.DaysLate,
		LateFee:    assessment.LateFee,
	}, nil
}

// Status derives the status and late fee of rentalID as of today without changing anything.
// For a returned rental the result is fixed by its return date.
func (l Ledger) Status(ctx context.Context, rentalID int64) (Assessment, error) {
	rental, err := l.store.GetRental(ctx, rentalID)
	if err != nil {
		return Assessment{}, err
	}

	return Assess(rental, l.today()), nil
}

// List returns the rentals matching filter with their derived fields as of today.
func (l Ledger) List(ctx context.Context, filter RentalFilter) ([]Listing, error) {
	today := l.today()

	records, err := l.store.FindRentals(ctx, filter, today)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(records))
	for _, record := range records {
		listings = append(listings, Listing{
			RentalRecord: record,
			Assessment:   Assess(record.Rental, today),
		})
	}

	return listings, nil
}

// OpenRentals lists the rentals awaiting return, oldest issue date first.
func (l Ledger) OpenRentals(ctx context.Context) ([]Listing, error) {
	return l.List(ctx, OpenRentalsFilter())
}

// Today is the evaluation date the Ledger uses for derived fields.
func (l Ledger) Today() time.Time {
	return l.today()
}

func alreadyReturned(rentalID int64) error {
	return errors.Join(ErrAlreadyReturned, fmt.Errorf("rental %d was returned before", rentalID))
}
