package tests

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"eventsphere/api"
	"eventsphere/config"
	"eventsphere/db"
	"eventsphere/message"
	"eventsphere/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	postgresURL := os.Getenv("POSTGRES_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	if postgresURL == "" || redisAddr == "" {
		t.Skip("POSTGRES_URL and REDIS_ADDR not set, skipping component test")
	}

	cfg := config.Config{
		Port:                   "8080",
		JWTSecret:              testJWTSecret,
		PostgresURL:            postgresURL,
		RedisAddr:              redisAddr,
		MaxTicketsPerRequest:   10,
		IdempotencyTTL:         24 * time.Hour,
		IdempotencyInFlightTTL: 2 * time.Minute,
		IdempotencyKeyBucket:   5 * time.Minute,
	}

	conn, err := db.NewDBConn(cfg.PostgresURL)
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	notificationsService := &api.NotificationsMock{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		assert.NoError(t, service.New(cfg, redisClient, notificationsService, conn).Run(ctx))
	}()
	waitForHttpServer(t)

	adminToken := signToken(t, uuid.New(), "admin")
	userA := uuid.New()
	userB := uuid.New()
	tokenA := signToken(t, userA, "")
	tokenB := signToken(t, userB, "")

	eventID := createEvent(t, adminToken, 2, "50")

	// User A takes the first seat.
	status, bookingA, _ := createBooking(t, tokenA, eventID, 1, "a-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "confirmed", bookingA.BookingStatus)
	assert.Equal(t, "50", bookingA.TotalAmount)
	assert.Equal(t, 1, getEvent(t, eventID).AvailableSeats)

	// User B takes the second seat, the event is now full.
	status, _, _ = createBooking(t, tokenB, eventID, 1, "b-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 0, getEvent(t, eventID).AvailableSeats)

	// A third booking is denied.
	status, _, apiErr := createBooking(t, tokenB, eventID, 1, "b-2")
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "capacity_exhausted", apiErr.Kind)

	// User A retries the first request and gets the original booking back,
	// no seat is taken twice.
	status, replayed, _ := createBooking(t, tokenA, eventID, 1, "a-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, bookingA.BookingReference, replayed.BookingReference)
	assert.Equal(t, 0, getEvent(t, eventID).AvailableSeats)

	// Cancelling user A's booking frees the seat again.
	status, cancelled := cancelBooking(t, tokenA, bookingA.BookingID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled.BookingStatus)
	assert.Equal(t, 1, getEvent(t, eventID).AvailableSeats)

	// Cancelling again is a no-op.
	status, _ = cancelBooking(t, tokenA, bookingA.BookingID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, getEvent(t, eventID).AvailableSeats)

	// The freed seat can be booked.
	status, _, _ = createBooking(t, tokenB, eventID, 1, "b-3")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 0, getEvent(t, eventID).AvailableSeats)

	assertConfirmationsSent(t, notificationsService, 3)
	assertCancellationsSent(t, notificationsService, 1)
}

func assertConfirmationsSent(t *testing.T, notificationsService *api.NotificationsMock, want int) {
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			assert.GreaterOrEqual(t, len(notificationsService.Confirmations()), want, "not all confirmations delivered")
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func assertCancellationsSent(t *testing.T, notificationsService *api.NotificationsMock, want int) {
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			assert.GreaterOrEqual(t, len(notificationsService.Cancellations()), want, "cancellation notice not delivered")
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			if assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode) {
				return
			}
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
