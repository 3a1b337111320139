package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*MySQLAvailability, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLAvailability(db), mock
}

func TestMySQLBook(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO seat_bookings").
		WithArgs("1", "2025-01-01", "A01", SourceCustomer).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO seat_bookings").
		WithArgs("1", "2025-01-01", "A01", SourceCustomer).
		WillReturnError(&mysql.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry"})
	mock.ExpectExec("INSERT INTO seat_bookings").
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, s.Book(ctx, testKey, "A01"))
	assert.ErrorIs(t, s.Book(ctx, testKey, "A01"), ErrConflict)

	err := s.Book(ctx, testKey, "A02")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLIsBooked(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT 1 FROM seat_bookings").
		WithArgs("1", "2025-01-01", "A01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM seat_bookings").
		WithArgs("1", "2025-01-01", "B01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := s.IsBooked(ctx, testKey, "A01")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsBooked(ctx, testKey, "B01")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLEnsureSeeded(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO seat_seeds").
		WithArgs("1", "2025-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT 1 FROM seat_bookings .* FOR UPDATE").
		WithArgs("1", "2025-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT IGNORE INTO seat_bookings").
		WithArgs("1", "2025-01-01", "A01", SourceSeed, "1", "2025-01-01", "B02", SourceSeed).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO seat_seeds").
		WithArgs("1", "2025-01-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	seeded, err := s.EnsureSeeded(ctx, testKey, []string{"A01", "B02"})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = s.EnsureSeeded(ctx, testKey, []string{"C03"})
	require.NoError(t, err)
	assert.False(t, seeded)

	seeded, err = s.EnsureSeeded(ctx, testKey, nil)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLEnsureSeededSkipsKeyWithBookings(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO seat_seeds").
		WithArgs("1", "2025-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT 1 FROM seat_bookings .* FOR UPDATE").
		WithArgs("1", "2025-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectCommit()

	seeded, err := s.EnsureSeeded(context.Background(), testKey, []string{"A01"})
	require.NoError(t, err)
	assert.False(t, seeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLEnsureSeededRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO seat_seeds").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT 1 FROM seat_bookings").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT IGNORE INTO seat_bookings").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := s.EnsureSeeded(context.Background(), testKey, []string{"A01"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLBooked(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT seat_label FROM seat_bookings").
		WithArgs("1", "2025-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A01").AddRow("N27"))

	got, err := s.Booked(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"A01": {}, "N27": {}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
