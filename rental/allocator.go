package rental

import (
	"context"
)

// Allocator assigns sequential identifiers derived from the persisted maximum at allocation time.
// Two concurrent allocations may return the same id; the insert that loses reports
// ErrConcurrencyConflict and is retried with a fresh id.
type Allocator struct {
	ids IDSource
}

// NewAllocator creates an Allocator reading from ids.
func NewAllocator(ids IDSource) (Allocator, error) {
	if ids == nil {
		return Allocator{}, ErrNilStore
	}

	return Allocator{ids: ids}, nil
}

// NextID returns one greater than the current maximum identifier of kind, so 1 when none exist.
func (a Allocator) NextID(ctx context.Context, kind EntityKind) (int64, error) {
	current, err := a.ids.MaxID(ctx, kind)
	if err != nil {
		return 0, err
	}

	return current + 1, nil
}
