package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinebook/internal/model"
)

// errDuplicateEntry is MySQL's ER_DUP_ENTRY.
const errDuplicateEntry = 1062

// Booking sources recorded in seat_bookings.source.
const (
	SourceSeed     = "SEED"
	SourceCustomer = "CUSTOMER"
)

// MySQLAvailability stores booked seats in the seat_bookings table whose
// primary key is (showtime_id, show_date, seat_label).  The primary key is
// the uniqueness guard: a duplicate insert fails with ER_DUP_ENTRY instead
// of overwriting.  seat_seeds records which keys have passed the seed
// decision.
type MySQLAvailability struct {
	db *sql.DB
}

// NewMySQLAvailability returns a store bound to the given database.
func NewMySQLAvailability(db *sql.DB) *MySQLAvailability { return &MySQLAvailability{db: db} }

func (s *MySQLAvailability) IsBooked(ctx context.Context, key model.BookingKey, seat string) (bool, error) {
	const q = `SELECT 1 FROM seat_bookings WHERE showtime_id = ? AND show_date = ? AND seat_label = ?`
	var one int
	err := s.db.QueryRowContext(ctx, q, key.ShowtimeID, key.Date, seat).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeError("mysql is booked", err)
	}
	return true, nil
}

func (s *MySQLAvailability) Book(ctx context.Context, key model.BookingKey, seat string) error {
	const q = `INSERT INTO seat_bookings (showtime_id, show_date, seat_label, source) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, key.ShowtimeID, key.Date, seat, SourceCustomer)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == errDuplicateEntry {
			return ErrConflict
		}
		return storeError("mysql book", err)
	}
	return nil
}

// EnsureSeeded pre-fills a key that has no booked seats at all.  The
// seat_seeds row serialises concurrent seeders: a second caller blocks on
// its primary key until the first transaction ends and then sees zero
// affected rows.  The winner re-checks seat_bookings with a locking read,
// so a key that already holds a booking is left untouched and bookings
// racing the seed wait for it to commit.
func (s *MySQLAvailability) EnsureSeeded(ctx context.Context, key model.BookingKey, seats []string) (bool, error) {
	if len(seats) == 0 {
		return false, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storeError("mysql seed begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO seat_seeds (showtime_id, show_date) VALUES (?, ?)`,
		key.ShowtimeID, key.Date,
	)
	if err != nil {
		return false, storeError("mysql seed marker", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return false, storeError("mysql seed marker", err)
	}
	if claimed == 0 {
		return false, nil
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM seat_bookings WHERE showtime_id = ? AND show_date = ? LIMIT 1 FOR UPDATE`,
		key.ShowtimeID, key.Date,
	).Scan(&one)
	switch {
	case err == nil:
		// already booked into; keep the marker so later reads skip this check
		if err := tx.Commit(); err != nil {
			return false, storeError("mysql seed commit", err)
		}
		committed = true
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, storeError("mysql seed check", err)
	}

	var b strings.Builder
	b.WriteString(`INSERT IGNORE INTO seat_bookings (showtime_id, show_date, seat_label, source) VALUES `)
	args := make([]interface{}, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?)")
		args = append(args, key.ShowtimeID, key.Date, seat, SourceSeed)
	}
	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		return false, storeError("mysql seed seats", err)
	}
	if err := tx.Commit(); err != nil {
		return false, storeError("mysql seed commit", err)
	}
	committed = true
	return true, nil
}

func (s *MySQLAvailability) Booked(ctx context.Context, key model.BookingKey) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seat_label FROM seat_bookings WHERE showtime_id = ? AND show_date = ?`,
		key.ShowtimeID, key.Date,
	)
	if err != nil {
		return nil, storeError("mysql booked", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, storeError("mysql booked scan", err)
		}
		out[label] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("mysql booked", err)
	}
	return out, nil
}

func (s *MySQLAvailability) Close() error { return s.db.Close() }
