package rental

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input. Nothing has touched storage when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an invariant violation, e.g. the movie is already on loan or deletion is blocked by an open rental.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced identifier that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReturned marks a second return attempt for the same rental.
	ErrAlreadyReturned = errors.New("rental already returned")

	// ErrStorage marks a failure reported by the storage dependency.
	ErrStorage = errors.New("storage failure")

	// ErrConcurrencyConflict is returned by a Store when the identifier chosen for an insert was taken in the meantime.
	// It is retried by the Ledger and the catalogs and never surfaces to callers unless retries are exhausted.
	ErrConcurrencyConflict = errors.New("concurrency conflict, identifier already taken")

	// ErrNilStore is returned when a nil Store is supplied.
	ErrNilStore = errors.New("store must not be nil")
)

// ValidationError identifies the offending field of a rejected input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

// NotFoundError builds an error matching ErrNotFound for the given entity.
func NotFoundError(kind EntityKind, id int64) error {
	return errors.Join(ErrNotFound, fmt.Errorf("%s %d does not exist", kind, id))
}

// ConflictError builds an error matching ErrConflict.
func ConflictError(format string, args ...any) error {
	return errors.Join(ErrConflict, fmt.Errorf(format, args...))
}
