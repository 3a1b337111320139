// Package queue defines the booking.confirmed message and the background
// consumer that records confirmed bookings.
package queue

// BookingQueueName is the durable queue carrying BookingConfirmedEvent.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published after a seat has been booked.  It
// carries enough catalog context for downstream consumers (ticket
// generation, notifications, the booking log) to work without calling
// back into the service.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	ShowtimeID  string `json:"showtime_id"`
	Date        string `json:"date"`
	Seat        string `json:"seat"`
	TheatreID   string `json:"theatre_id"`
	TheatreName string `json:"theatre_name"`
	MovieID     string `json:"movie_id"`
	MovieName   string `json:"movie_name"`
	Time        string `json:"time"`
	Technology  string `json:"technology"`
	Price       int    `json:"price"`
	ConfirmedAt string `json:"confirmed_at"`
}
