package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventsphere/booking"
	observability "eventsphere/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ICapacityLedger interface {
	Reserve(ctx context.Context, eventID uuid.UUID, count int) (bool, error)
	Release(ctx context.Context, eventID uuid.UUID, count int) error
}

// CapacityLedger guards the available_seats column. Every seat count change
// goes through Reserve or Release; both are single atomic statements, so
// concurrent bookings can never oversell an event.
type CapacityLedger struct {
	db *DB
}

func NewCapacityLedger(db *DB) CapacityLedger {
	if db == nil {
		panic("missing db")
	}

	return CapacityLedger{db: db}
}

// Reserve takes count seats if enough are available. The condition and the
// decrement are one statement: either all requested seats are taken or none.
func (cl CapacityLedger) Reserve(ctx context.Context, eventID uuid.UUID, count int) (bool, error) {
	res, err := cl.db.Conn.ExecContext(
		ctx,
		`
		UPDATE events
		SET available_seats = available_seats - $2
		WHERE event_id = $1 AND available_seats >= $2`,
		eventID,
		count,
	)
	if err != nil {
		return false, fmt.Errorf("could not reserve %d seats for event %s: %w", count, eventID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read reserve result: %w", err)
	}

	return affected == 1, nil
}

// Release returns count seats to the event, never exceeding capacity. A
// release that needed clamping means seats were released more often than
// reserved; the ledger stays consistent but the mismatch is alarmed.
func (cl CapacityLedger) Release(ctx context.Context, eventID uuid.UUID, count int) error {
	row := cl.db.Conn.QueryRowContext(
		ctx,
		`
		UPDATE events e
		SET available_seats = LEAST(e.available_seats + $2, e.capacity)
		FROM (SELECT event_id, available_seats FROM events WHERE event_id = $1 FOR UPDATE) prev
		WHERE e.event_id = prev.event_id
		RETURNING prev.available_seats, e.capacity`,
		eventID,
		count,
	)

	var prevSeats, capacity int
	err := row.Scan(&prevSeats, &capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("could not release %d seats for event %s: %w", count, eventID, err)
	}

	applied := count
	if prevSeats+count > capacity {
		applied = capacity - prevSeats
		log.FromContext(ctx).WithFields(logrus.Fields{
			"event_id":       eventID,
			"count":          count,
			"previous_seats": prevSeats,
			"capacity":       capacity,
		}).Error("CONSISTENCY ALARM: capacity over-release, seats clamped at capacity")
		observability.CapacityOverReleaseTotal.Inc()
	}

	// The counter tracks ledger movement, so a clamped release only adds the
	// seats that actually went back.
	observability.SeatsReleasedTotal.Add(float64(applied))

	return nil
}
