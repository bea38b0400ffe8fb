package migrations

import (
	"context"
	"os"
	"testing"
	"time"

	"eventsphere/db"
	"eventsphere/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairCapacity(t *testing.T) {
	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		t.Skip("POSTGRES_URL not set, skipping Postgres integration test")
	}

	dbconn, err := sqlx.Open("postgres", postgresURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbconn.Close() })

	conn := db.DB{Conn: dbconn}
	conn.MigrateSchema()
	ctx := context.Background()

	eventRepo := db.NewEventRepository(&conn)
	created, err := eventRepo.Create(ctx, entities.Event{
		Title:    "Repair Target",
		Venue:    "Arena",
		Price:    decimal.RequireFromString("10"),
		StartsAt: time.Now().Add(48 * time.Hour),
		Capacity: 10,
	})
	require.NoError(t, err)

	booked := entities.Booking{
		BookingID:        uuid.New(),
		BookingReference: "repair-" + uuid.NewString()[:8],
		UserID:           uuid.New(),
		EventID:          created.EventID,
		NumberOfTickets:  4,
		TotalAmount:      decimal.RequireFromString("40"),
		BookingStatus:    entities.BookingStatusConfirmed,
		PaymentStatus:    entities.PaymentStatusCompleted,
		CreatedAt:        time.Now(),
	}
	_, err = dbconn.NamedExecContext(ctx, `
		INSERT INTO
		    bookings (booking_id, booking_reference, user_id, event_id, number_of_tickets, total_amount, booking_status, payment_status, created_at)
		VALUES (:booking_id, :booking_reference, :user_id, :event_id, :number_of_tickets, :total_amount, :booking_status, :payment_status, :created_at)
	`, booked)
	require.NoError(t, err)

	// Simulate drift: the ledger says 9 seats free, the bookings say 6.
	_, err = dbconn.ExecContext(ctx, `UPDATE events SET available_seats = 9 WHERE event_id = $1`, created.EventID)
	require.NoError(t, err)

	err = RepairCapacity(ctx, conn)
	require.NoError(t, err)

	event, err := eventRepo.EventByID(ctx, created.EventID)
	require.NoError(t, err)
	assert.Equal(t, 6, event.AvailableSeats)
}
