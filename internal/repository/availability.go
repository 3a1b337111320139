package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/cinebook/internal/model"
)

// AvailabilityStore owns the set of booked seat labels per booking key.
// All implementations must make Book and EnsureSeeded atomic on their own;
// callers never perform a separate membership check before inserting.
type AvailabilityStore interface {
	// IsBooked reports whether seat is in the booked set for key.  It has
	// no side effects.
	IsBooked(ctx context.Context, key model.BookingKey, seat string) (bool, error)

	// Book adds seat to the set for key if it is absent.  It returns
	// ErrConflict when the seat was already present.
	Book(ctx context.Context, key model.BookingKey, seat string) error

	// EnsureSeeded fills the set for key with seats only if the set does
	// not exist yet, as one atomic create-if-absent step.  A key that
	// already holds any booking is left alone and existing members are
	// never removed.  An empty seats slice is a no-op.  The returned bool
	// is true when this call performed the seed.
	EnsureSeeded(ctx context.Context, key model.BookingKey, seats []string) (bool, error)

	// Booked returns a snapshot of the booked set for key.  A key that has
	// never been touched yields an empty set.
	Booked(ctx context.Context, key model.BookingKey) (map[string]struct{}, error)

	// Close releases the connections held by the store.
	Close() error
}

// storeError tags a backend failure with ErrStoreUnavailable while keeping
// the original error in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
