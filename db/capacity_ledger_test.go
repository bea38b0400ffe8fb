package db

import (
	"context"
	"testing"

	"eventsphere/booking"
	observability "eventsphere/trace"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	return &DB{Conn: sqlx.NewDb(mockDb, "postgres")}, mock
}

func TestReserveTakesSeats(t *testing.T) {
	dbConn, mock := newMockDB(t)
	ledger := NewCapacityLedger(dbConn)
	eventID := uuid.New()

	mock.ExpectExec(`UPDATE events\s+SET available_seats = available_seats -`).
		WithArgs(eventID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reserved, err := ledger.Reserve(context.Background(), eventID, 2)
	require.NoError(t, err)
	assert.True(t, reserved)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRefusesWhenNotEnoughSeats(t *testing.T) {
	dbConn, mock := newMockDB(t)
	ledger := NewCapacityLedger(dbConn)
	eventID := uuid.New()

	mock.ExpectExec(`UPDATE events\s+SET available_seats = available_seats -`).
		WithArgs(eventID, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	reserved, err := ledger.Reserve(context.Background(), eventID, 5)
	require.NoError(t, err)
	assert.False(t, reserved)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseReturnsSeats(t *testing.T) {
	dbConn, mock := newMockDB(t)
	ledger := NewCapacityLedger(dbConn)
	eventID := uuid.New()

	mock.ExpectQuery(`UPDATE events e\s+SET available_seats = LEAST`).
		WithArgs(eventID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats", "capacity"}).AddRow(3, 10))

	releasedBefore := testutil.ToFloat64(observability.SeatsReleasedTotal)

	err := ledger.Release(context.Background(), eventID, 2)
	require.NoError(t, err)

	assert.Equal(t, releasedBefore+2, testutil.ToFloat64(observability.SeatsReleasedTotal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseClampsAtCapacity(t *testing.T) {
	dbConn, mock := newMockDB(t)
	ledger := NewCapacityLedger(dbConn)
	eventID := uuid.New()

	// 9 seats free out of 10, releasing 2 more would exceed capacity.
	mock.ExpectQuery(`UPDATE events e\s+SET available_seats = LEAST`).
		WithArgs(eventID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats", "capacity"}).AddRow(9, 10))

	releasedBefore := testutil.ToFloat64(observability.SeatsReleasedTotal)
	overReleasesBefore := testutil.ToFloat64(observability.CapacityOverReleaseTotal)

	err := ledger.Release(context.Background(), eventID, 2)
	require.NoError(t, err)

	// Only one seat fit under the capacity ceiling.
	assert.Equal(t, releasedBefore+1, testutil.ToFloat64(observability.SeatsReleasedTotal))
	assert.Equal(t, overReleasesBefore+1, testutil.ToFloat64(observability.CapacityOverReleaseTotal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseUnknownEvent(t *testing.T) {
	dbConn, mock := newMockDB(t)
	ledger := NewCapacityLedger(dbConn)
	eventID := uuid.New()

	mock.ExpectQuery(`UPDATE events e\s+SET available_seats = LEAST`).
		WithArgs(eventID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats", "capacity"}))

	err := ledger.Release(context.Background(), eventID, 2)
	assert.ErrorIs(t, err, booking.ErrEventNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
