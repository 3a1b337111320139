// Package repository defines the seat availability store and the error
// values shared by its implementations.  These sentinel values allow
// higher layers such as services and handlers to distinguish between
// different failure scenarios without knowing which backend is in use.
package repository

import "errors"

// ErrConflict is returned when a seat is already booked under the
// requested key.  Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("seat already booked")

// ErrStoreUnavailable wraps failures of the backing store (network
// errors, closed pools).  Nothing retries on it; it is propagated to the
// caller as-is.
var ErrStoreUnavailable = errors.New("availability store unavailable")
