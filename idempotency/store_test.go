package idempotency

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eventsphere/entities"
	"eventsphere/pkg/clock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInFlightTTL  = 2 * time.Minute
	testCompletedTTL = 24 * time.Hour
)

func newTestStore(t *testing.T) (*RedisStore, redismock.ClientMock, time.Time) {
	t.Helper()

	rdb, mock := redismock.NewClientMock()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewRedisStore(rdb, testInFlightTTL, testCompletedTTL, clock.NewFixed(now))

	return store, mock, now
}

func TestBeginClaimsNewKey(t *testing.T) {
	store, mock, now := newTestStore(t)

	payload, err := json.Marshal(Entry{Status: StatusInFlight, RecordedAt: now})
	require.NoError(t, err)

	mock.ExpectSetArgs(keyPrefix+"key-1", payload, redis.SetArgs{
		Mode: "NX",
		Get:  true,
		TTL:  testInFlightTTL,
	}).RedisNil()

	entry, created, err := store.Begin(context.Background(), "key-1")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, StatusInFlight, entry.Status)
	assert.Equal(t, now, entry.RecordedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginReturnsExistingEntry(t *testing.T) {
	store, mock, now := newTestStore(t)

	existing := NewConfirmedEntry(entities.BookingResult{
		BookingID:        uuid.New(),
		BookingReference: "REF123",
		TotalAmount:      decimal.RequireFromString("100"),
		BookingStatus:    entities.BookingStatusConfirmed,
	})
	existingPayload, err := json.Marshal(existing)
	require.NoError(t, err)

	payload, err := json.Marshal(Entry{Status: StatusInFlight, RecordedAt: now})
	require.NoError(t, err)

	mock.ExpectSetArgs(keyPrefix+"key-1", payload, redis.SetArgs{
		Mode: "NX",
		Get:  true,
		TTL:  testInFlightTTL,
	}).SetVal(string(existingPayload))

	entry, created, err := store.Begin(context.Background(), "key-1")
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, StatusCompleted, entry.Status)
	assert.Equal(t, OutcomeConfirmed, entry.Outcome)
	assert.Equal(t, existing.BookingID, entry.BookingID)
	assert.Equal(t, "REF123", entry.BookingReference)
	assert.True(t, entry.TotalAmount.Equal(decimal.RequireFromString("100")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteStoresOutcomeWithRetentionTTL(t *testing.T) {
	store, mock, now := newTestStore(t)

	entry := NewFailedEntry(ErrorKindCapacityExhausted)

	expected := entry
	expected.RecordedAt = now
	expectedPayload, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectSet(keyPrefix+"key-1", expectedPayload, testCompletedTTL).SetVal("OK")

	err = store.Complete(context.Background(), "key-1", entry)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	store, mock, _ := newTestStore(t)

	existing := NewFailedEntry(ErrorKindCapacityExhausted)
	existingPayload, err := json.Marshal(existing)
	require.NoError(t, err)

	mock.ExpectGet(keyPrefix + "key-1").SetVal(string(existingPayload))

	entry, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, entry.Status)
	assert.Equal(t, OutcomeFailed, entry.Outcome)
	assert.Equal(t, ErrorKindCapacityExhausted, entry.ErrorKind)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingEntry(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectGet(keyPrefix + "key-1").RedisNil()

	_, err := store.Get(context.Background(), "key-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbortDropsEntry(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectDel(keyPrefix + "key-1").SetVal(1)

	err := store.Abort(context.Background(), "key-1")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryResultRoundTrip(t *testing.T) {
	result := entities.BookingResult{
		BookingID:        uuid.New(),
		BookingReference: "REF123",
		TotalAmount:      decimal.RequireFromString("150.50"),
		BookingStatus:    entities.BookingStatusConfirmed,
	}

	entry := NewConfirmedEntry(result)
	replayed := entry.Result()

	assert.Equal(t, result.BookingID, replayed.BookingID)
	assert.Equal(t, result.BookingReference, replayed.BookingReference)
	assert.True(t, result.TotalAmount.Equal(replayed.TotalAmount))
	assert.Equal(t, entities.BookingStatusConfirmed, replayed.BookingStatus)
}
