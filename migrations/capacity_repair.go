package migrations

import (
	"context"
	"fmt"

	"eventsphere/db"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// RepairCapacity recomputes available_seats for every event from the
// confirmed bookings. It is the operator tool for drift that reconciliation
// commands could not repair, for example after a lost outbox.
func RepairCapacity(ctx context.Context, conn db.DB) error {
	log.FromContext(ctx).Info("Repairing capacity ledger")

	res, err := conn.Conn.ExecContext(ctx, `
		UPDATE events e
		SET available_seats = GREATEST(e.capacity - COALESCE((
			SELECT SUM(number_of_tickets)
			FROM bookings
			WHERE event_id = e.event_id AND booking_status = 'confirmed'
		), 0), 0)
	`)
	if err != nil {
		return fmt.Errorf("could not repair capacity ledger: %w", err)
	}

	repaired, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read repair result: %w", err)
	}

	log.FromContext(ctx).WithField("events_updated", repaired).Info("Capacity ledger repaired")

	return nil
}
