package rental

import (
	"context"
)

// Guard answers whether a movie is on loan and whether a customer has an open rental.
// Every deletion path and every issuance consults it before writing.
type Guard struct {
	checker OpenRentalChecker
}

// NewGuard creates a Guard reading from checker.
func NewGuard(checker OpenRentalChecker) (Guard, error) {
	if checker == nil {
		return Guard{}, ErrNilStore
	}

	return Guard{checker: checker}, nil
}

// IsMovieOnLoan reports whether an open rental references movieID.
func (g Guard) IsMovieOnLoan(ctx context.Context, movieID int64) (bool, error) {
	return g.checker.HasOpenRentalForMovie(ctx, movieID)
}

// IsCustomerActive reports whether an open rental references customerID.
func (g Guard) IsCustomerActive(ctx context.Context, customerID int64) (bool, error) {
	return g.checker.HasOpenRentalForCustomer(ctx, customerID)
}

// CanDeleteMovie is false while the movie is on loan.
func (g Guard) CanDeleteMovie(ctx context.Context, movieID int64) (bool, error) {
	onLoan, err := g.IsMovieOnLoan(ctx, movieID)
	if err != nil {
		return false, err
	}

	return !onLoan, nil
}

// CanDeleteCustomer is false while the customer has an open rental.
func (g Guard) CanDeleteCustomer(ctx context.Context, customerID int64) (bool, error) {
	active, err := g.IsCustomerActive(ctx, customerID)
	if err != nil {
		return false, err
	}

	return !active, nil
}

func (g Guard) requireMovieAvailable(ctx context.Context, movieID int64) error {
	onLoan, err := g.IsMovieOnLoan(ctx, movieID)
	if err != nil {
		return err
	}

	if onLoan {
		return ConflictError("movie %d is already on loan", movieID)
	}

	return nil
}

func (g Guard) requireMovieDeletable(ctx context.Context, movieID int64) error {
	ok, err := g.CanDeleteMovie(ctx, movieID)
	if err != nil {
		return err
	}

	if !ok {
		return ConflictError("movie %d is on loan and cannot be deleted", movieID)
	}

	return nil
}

func (g Guard) requireCustomerDeletable(ctx context.Context, customerID int64) error {
	ok, err := g.CanDeleteCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	if !ok {
		return ConflictError("customer %d has open rentals and cannot be deleted", customerID)
	}

	return nil
}
