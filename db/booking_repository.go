package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventsphere/booking"
	"eventsphere/entities"
	"eventsphere/message/event"
	"eventsphere/message/outbox"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IBookingRepository interface {
	Create(ctx context.Context, booking entities.Booking) error
	BookingByID(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error)
	MarkCancelled(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) (bool, error)
}

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) BookingRepository {
	if db == nil {
		panic("missing db")
	}

	return BookingRepository{db: db}
}

// Create persists the booking and publishes BookingConfirmed_v1 through the
// outbox in the same transaction. Seats must already be reserved; this method
// does not touch the capacity ledger.
func (br BookingRepository) Create(ctx context.Context, b entities.Booking) error {
	return updateInTx(ctx, br.db.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO
			    bookings (booking_id, booking_reference, user_id, event_id, number_of_tickets, total_amount, booking_status, payment_status, created_at)
			VALUES (:booking_id, :booking_reference, :user_id, :event_id, :number_of_tickets, :total_amount, :booking_status, :payment_status, :created_at)
			`, b)
		if err != nil {
			if isErrorUniqueViolation(err) {
				return fmt.Errorf("booking reference %s is already taken: %w", b.BookingReference, err)
			}
			return fmt.Errorf("could not add booking: %w", err)
		}

		outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return fmt.Errorf("could not create outbox publisher: %w", err)
		}

		err = event.NewBus(outboxPublisher).Publish(ctx, entities.BookingConfirmed_v1{
			Header:           entities.NewEventHeader(),
			BookingID:        b.BookingID,
			BookingReference: b.BookingReference,
			UserID:           b.UserID,
			EventID:          b.EventID,
			NumberOfTickets:  b.NumberOfTickets,
			TotalAmount:      b.TotalAmount,
		})
		if err != nil {
			return fmt.Errorf("could not publish BookingConfirmed_v1: %w", err)
		}

		return nil
	})
}

func (br BookingRepository) BookingByID(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error) {
	var b entities.Booking
	err := br.db.Conn.GetContext(ctx, &b, "SELECT * FROM bookings WHERE booking_id = $1", bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Booking{}, booking.ErrBookingNotFound
	}
	if err != nil {
		return entities.Booking{}, fmt.Errorf("could not get booking %s: %w", bookingID, err)
	}

	return b, nil
}

// MarkCancelled flips a confirmed booking to cancelled. The status condition
// makes the flip first-wins: of any number of concurrent cancellations exactly
// one gets flipped=true, and only that caller may release the seats.
func (br BookingRepository) MarkCancelled(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) (bool, error) {
	res, err := br.db.Conn.ExecContext(
		ctx,
		`
		UPDATE bookings
		SET booking_status = $2, cancelled_at = $3
		WHERE booking_id = $1 AND booking_status = $4`,
		bookingID,
		entities.BookingStatusCancelled,
		cancelledAt,
		entities.BookingStatusConfirmed,
	)
	if err != nil {
		return false, fmt.Errorf("could not cancel booking %s: %w", bookingID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read cancel result: %w", err)
	}

	return affected == 1, nil
}
