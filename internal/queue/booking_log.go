package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BookingLog appends one human-readable line per confirmed booking to a
// file.  The parent directory is created on first write.
type BookingLog struct {
	path string
	mu   sync.Mutex
}

// NewBookingLog returns a log writing to path.
func NewBookingLog(path string) *BookingLog { return &BookingLog{path: path} }

// Path returns the file the log appends to.
func (l *BookingLog) Path() string { return l.path }

// HandleMessage decodes a raw booking.confirmed body and appends it.
func (l *BookingLog) HandleMessage(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" || ev.Seat == "" {
		return fmt.Errorf("incomplete event: booking_id=%q seat=%q", ev.BookingID, ev.Seat)
	}
	return l.Append(ev)
}

// Append writes ev as a single line.
func (l *BookingLog) Append(ev BookingConfirmedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(l.path), err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open booking log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write booking log: %w", err)
	}
	return nil
}

// FormatLine renders ev the way it appears in the booking log.
func FormatLine(ev BookingConfirmedEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | showtime_id=%s | date=%s | seat=%s | theatre=%q | movie=%q | time=%q | technology=%q | price=%d\n",
		ev.ConfirmedAt, ev.BookingID, ev.ShowtimeID, ev.Date, ev.Seat, ev.TheatreName, ev.MovieName, ev.Time, ev.Technology, ev.Price)
}
