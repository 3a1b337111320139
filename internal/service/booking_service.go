// Package service implements the booking workflow on top of the catalog
// and the availability store: validation, the atomic booking transition,
// lazy seat pre-fill and seat map rendering.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
)

// ErrUnknownShowtime is returned by operator queries for a showtime that
// is not in the catalog.  Public reads return empty results instead.
var ErrUnknownShowtime = errors.New("unknown showtime")

// DefaultSeedFraction is the share of seats pre-booked on first access.
const DefaultSeedFraction = 0.15

// BookRequest is the input of Book.  Date may be empty, meaning today.
type BookRequest struct {
	ShowtimeID string
	Seat       string
	Date       string
}

// Occupancy summarises the booked seats of one booking key.
type Occupancy struct {
	ShowtimeID string   `json:"showtime_id"`
	Date       string   `json:"date"`
	Seats      []string `json:"seats"`
	Booked     int      `json:"booked"`
	Capacity   int      `json:"capacity"`
}

// Options tunes a BookingService.  A zero SeedFraction disables the
// pre-fill; nil Publisher, Logger and Now pick defaults.
type Options struct {
	SeedFraction float64
	Publisher    EventPublisher
	Logger       *slog.Logger
	Now          func() time.Time
}

// BookingService owns the seat booking workflow.  It holds no mutable
// state of its own; all seat state lives in the availability store.
type BookingService struct {
	catalog      *catalog.Catalog
	store        repository.AvailabilityStore
	publisher    EventPublisher
	logger       *slog.Logger
	seedFraction float64
	now          func() time.Time
}

// NewBookingService wires a service.  cat and store must be non-nil.
func NewBookingService(cat *catalog.Catalog, store repository.AvailabilityStore, opts Options) *BookingService {
	if cat == nil || store == nil {
		panic("nil dependency passed to NewBookingService")
	}
	s := &BookingService{
		catalog:      cat,
		store:        store,
		publisher:    opts.Publisher,
		logger:       opts.Logger,
		seedFraction: opts.SeedFraction,
		now:          opts.Now,
	}
	if s.publisher == nil {
		s.publisher = NopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Catalog exposes the catalog the service validates against.
func (s *BookingService) Catalog() *catalog.Catalog { return s.catalog }

// Book moves one seat from Available to Booked.  It returns a
// *ValidationError for bad input and repository.ErrConflict when the seat
// is already taken; a conflicting call never changes the stored set.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (model.Booking, error) {
	showtimeID := strings.TrimSpace(req.ShowtimeID)
	seat := strings.TrimSpace(req.Seat)
	if showtimeID == "" || seat == "" {
		bookingTotal.WithLabelValues("invalid").Inc()
		return model.Booking{}, invalid("", "missing showtime_id or seat")
	}
	st, ok := s.catalog.Showtime(showtimeID)
	if !ok {
		bookingTotal.WithLabelValues("invalid").Inc()
		return model.Booking{}, invalid("showtime_id", "unknown showtime")
	}
	if !seating.IsValidLabel(seat) {
		bookingTotal.WithLabelValues("invalid").Inc()
		return model.Booking{}, invalid("seat", "not a seat of this auditorium")
	}
	seat = seating.Normalize(seat)
	date, err := s.resolveDate(req.Date)
	if err != nil {
		bookingTotal.WithLabelValues("invalid").Inc()
		return model.Booking{}, err
	}

	key := model.BookingKey{ShowtimeID: st.ID, Date: date}
	started := time.Now()
	err = s.store.Book(ctx, key, seat)
	bookingDuration.Observe(time.Since(started).Seconds())
	switch {
	case errors.Is(err, repository.ErrConflict):
		bookingTotal.WithLabelValues("conflict").Inc()
		return model.Booking{}, err
	case err != nil:
		bookingTotal.WithLabelValues("error").Inc()
		s.logger.Error("book seat failed", "key", key.String(), "seat", seat, "error", err)
		return model.Booking{}, err
	}
	bookingTotal.WithLabelValues("booked").Inc()

	b := model.Booking{
		ID:         uuid.NewString(),
		ShowtimeID: st.ID,
		Seat:       seat,
		Date:       date,
		Price:      catalog.Price(st.Time),
		BookedAt:   s.now().UTC(),
	}
	s.logger.Info("seat booked", "booking_id", b.ID, "key", key.String(), "seat", seat)
	s.publish(ctx, st, b)
	return b, nil
}

// IsBooked reports whether a seat is booked for a showtime on a date.
// It never seeds the key.
func (s *BookingService) IsBooked(ctx context.Context, showtimeID, date, seat string) (bool, error) {
	if !seating.IsValidLabel(seat) {
		return false, invalid("seat", "not a seat of this auditorium")
	}
	d, err := s.resolveDate(date)
	if err != nil {
		return false, err
	}
	return s.store.IsBooked(ctx, model.BookingKey{ShowtimeID: showtimeID, Date: d}, seating.Normalize(seat))
}

// SeatMap renders the seat grid for a showtime and date.  The first read
// of a key pre-books a random share of the seats; that happens at most
// once per key, so later reads see the same set plus real bookings.  An
// unknown showtime yields an empty grid.
func (s *BookingService) SeatMap(ctx context.Context, showtimeID, date string) ([]seating.Row, error) {
	d, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	st, ok := s.catalog.Showtime(strings.TrimSpace(showtimeID))
	if !ok {
		return []seating.Row{}, nil
	}
	key := model.BookingKey{ShowtimeID: st.ID, Date: d}

	seeded, err := s.store.EnsureSeeded(ctx, key, seating.Sample(seating.AllSeats(), s.seedFraction))
	if err != nil {
		return nil, err
	}
	if seeded {
		seedTotal.Inc()
		s.logger.Debug("booking key pre-filled", "key", key.String())
	}
	booked, err := s.store.Booked(ctx, key)
	if err != nil {
		return nil, err
	}
	return seating.Render(booked), nil
}

// BookedSeats lists the booked seats of a key in label order without
// seeding it.
func (s *BookingService) BookedSeats(ctx context.Context, showtimeID, date string) (Occupancy, error) {
	d, err := s.resolveDate(date)
	if err != nil {
		return Occupancy{}, err
	}
	st, ok := s.catalog.Showtime(strings.TrimSpace(showtimeID))
	if !ok {
		return Occupancy{}, ErrUnknownShowtime
	}
	booked, err := s.store.Booked(ctx, model.BookingKey{ShowtimeID: st.ID, Date: d})
	if err != nil {
		return Occupancy{}, err
	}
	seats := make([]string, 0, len(booked))
	for label := range booked {
		seats = append(seats, label)
	}
	sort.Strings(seats)
	return Occupancy{
		ShowtimeID: st.ID,
		Date:       d,
		Seats:      seats,
		Booked:     len(seats),
		Capacity:   seating.Capacity(),
	}, nil
}

// resolveDate defaults an empty date to today and rejects anything that is
// not a YYYY-MM-DD calendar date.
func (s *BookingService) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().Format(model.DateLayout), nil
	}
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", invalid("date", "expected YYYY-MM-DD")
	}
	return t.Format(model.DateLayout), nil
}

// publish emits booking.confirmed.  Failures are logged and counted; the
// booking itself already succeeded and is not rolled back.
func (s *BookingService) publish(ctx context.Context, st model.Showtime, b model.Booking) {
	th, _ := s.catalog.Theatre(st.TheatreID)
	m, _ := s.catalog.Movie(st.MovieID)
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		ShowtimeID:  b.ShowtimeID,
		Date:        b.Date,
		Seat:        b.Seat,
		TheatreID:   th.ID,
		TheatreName: th.Name,
		MovieID:     m.ID,
		MovieName:   m.Name,
		Time:        st.Time,
		Technology:  st.Technology,
		Price:       b.Price,
		ConfirmedAt: b.BookedAt.Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		publishErrors.Inc()
		s.logger.Warn("publish booking.confirmed failed", "booking_id", b.ID, "error", err)
	}
}
