package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in booking keys and requests.
const DateLayout = "2006-01-02"

// SeatStatus is the state of a single seat under a booking key.  The only
// transition is Available -> Booked; there is no way back.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// BookingKey scopes a set of booked seats to one showtime on one date.
type BookingKey struct {
	ShowtimeID string
	Date       string
}

// String renders the key as "showtime/date" for logs.
func (k BookingKey) String() string { return fmt.Sprintf("%s/%s", k.ShowtimeID, k.Date) }

// Booking is the record handed back to a caller after a seat has been
// booked successfully.
//
// Fields:
//
//	ID         – opaque booking reference (UUID).
//	ShowtimeID – showtime the seat belongs to.
//	Seat       – seat label, e.g. "A01".
//	Date       – calendar date of the screening (YYYY-MM-DD).
//	Price      – ticket price as listed for the showtime.
//	BookedAt   – UTC time of the booking.
type Booking struct {
	ID         string    `json:"booking_id"`
	ShowtimeID string    `json:"showtime_id"`
	Seat       string    `json:"seat"`
	Date       string    `json:"date"`
	Price      int       `json:"price"`
	BookedAt   time.Time `json:"booked_at"`
}
