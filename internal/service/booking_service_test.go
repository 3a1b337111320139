package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// brokenStore fails every operation as an unreachable backend would.
type brokenStore struct{}

var errDown = errors.New("dial tcp: connection refused")

func (brokenStore) IsBooked(context.Context, model.BookingKey, string) (bool, error) {
	return false, errDown
}
func (brokenStore) Book(context.Context, model.BookingKey, string) error { return errDown }
func (brokenStore) EnsureSeeded(context.Context, model.BookingKey, []string) (bool, error) {
	return false, errDown
}
func (brokenStore) Booked(context.Context, model.BookingKey) (map[string]struct{}, error) {
	return nil, errDown
}
func (brokenStore) Close() error { return nil }

var fixedNow = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }

func newTestService(t *testing.T, store repository.AvailabilityStore, pub EventPublisher) *BookingService {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewBookingService(cat, store, Options{
		SeedFraction: DefaultSeedFraction,
		Publisher:    pub,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:          fixedNow,
	})
}

func TestBookThenConflict(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, repository.NewMemoryAvailability(), pub)
	ctx := context.Background()

	b, err := svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: "A01", Date: "2025-01-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "A01", b.Seat)
	assert.Equal(t, "2025-01-01", b.Date)
	assert.Equal(t, catalog.PriceMorning, b.Price)

	_, err = svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: "A01", Date: "2025-01-01"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	// lower-case, unpadded label resolves to the same seat
	_, err = svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: "a1", Date: "2025-01-01"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, b.ID, ev.BookingID)
	assert.Equal(t, "INOX: South City", ev.TheatreName)
	assert.Equal(t, "Param Sundari", ev.MovieName)
	assert.Equal(t, "09:10 AM", ev.Time)
}

func TestBookValidation(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   BookRequest
		field string
	}{
		{"missing showtime", BookRequest{Seat: "A01"}, ""},
		{"missing seat", BookRequest{ShowtimeID: "1"}, ""},
		{"unknown showtime", BookRequest{ShowtimeID: "99999", Seat: "A01"}, "showtime_id"},
		{"seat outside layout", BookRequest{ShowtimeID: "1", Seat: "Z123456"}, "seat"},
		{"bad date", BookRequest{ShowtimeID: "1", Seat: "A01", Date: "01/02/2025"}, "date"},
		{"impossible date", BookRequest{ShowtimeID: "1", Seat: "A01", Date: "2025-02-30"}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Book(ctx, tc.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestBookDefaultsDateToToday(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	b, err := svc.Book(context.Background(), BookRequest{ShowtimeID: "1", Seat: "B05"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", b.Date)

	booked, err := svc.IsBooked(context.Background(), "1", "2025-01-01", "B05")
	require.NoError(t, err)
	assert.True(t, booked)
}

func TestBookSucceedsWhenPublishFails(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, repository.NewMemoryAvailability(), pub)
	_, err := svc.Book(context.Background(), BookRequest{ShowtimeID: "2", Seat: "C10", Date: "2025-03-01"})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestStoreErrorsPropagate(t *testing.T) {
	svc := newTestService(t, brokenStore{}, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: "A01", Date: "2025-01-01"})
	assert.ErrorIs(t, err, errDown)

	_, err = svc.SeatMap(ctx, "1", "2025-01-01")
	assert.ErrorIs(t, err, errDown)

	_, err = svc.BookedSeats(ctx, "1", "2025-01-01")
	assert.ErrorIs(t, err, errDown)
}

func TestConcurrentBookSingleWinner(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	const attempts = 64
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, BookRequest{ShowtimeID: "7", Seat: "H15", Date: "2025-05-05"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestSeatMapSeedsOnceAndIsStable(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	first, err := svc.SeatMap(ctx, "1", "2025-01-01")
	require.NoError(t, err)
	require.Len(t, first, len(seating.Rows))
	assert.Equal(t, 58, seating.CountBooked(first))

	second, err := svc.SeatMap(ctx, "1", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := svc.SeatMap(ctx, "1", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, 58, seating.CountBooked(other))
}

func TestSeatMapReflectsNewBooking(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	before, err := svc.SeatMap(ctx, "3", "2025-01-01")
	require.NoError(t, err)

	var free string
	for _, r := range before {
		for _, block := range r.Blocks {
			for _, s := range block {
				if !s.Booked && free == "" {
					free = s.Label
				}
			}
		}
	}
	require.NotEmpty(t, free)

	_, err = svc.Book(ctx, BookRequest{ShowtimeID: "3", Seat: free, Date: "2025-01-01"})
	require.NoError(t, err)

	after, err := svc.SeatMap(ctx, "3", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, seating.CountBooked(before)+1, seating.CountBooked(after))
}

func TestSeatMapDoesNotPrefillBookedKey(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: "A01", Date: "2025-01-01"})
	require.NoError(t, err)

	rows, err := svc.SeatMap(ctx, "1", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, seating.CountBooked(rows))
}

func TestConcurrentFirstSeatMapSeedsOnce(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	const readers = 32
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SeatMap(ctx, "5", "2025-03-03")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	occ, err := svc.BookedSeats(ctx, "5", "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, 58, occ.Booked)
}

func TestSeatMapUnknownShowtimeIsEmpty(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	rows, err := svc.SeatMap(context.Background(), "nope", "")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, err = svc.SeatMap(context.Background(), "1", "tomorrow")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBookedSeats(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryAvailability(), nil)
	ctx := context.Background()

	for _, seat := range []string{"B02", "A01"} {
		_, err := svc.Book(ctx, BookRequest{ShowtimeID: "1", Seat: seat, Date: "2025-01-01"})
		require.NoError(t, err)
	}
	occ, err := svc.BookedSeats(ctx, "1", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"A01", "B02"}, occ.Seats)
	assert.Equal(t, 2, occ.Booked)
	assert.Equal(t, 392, occ.Capacity)

	_, err = svc.BookedSeats(ctx, "0", "2025-01-01")
	assert.ErrorIs(t, err, ErrUnknownShowtime)
}
