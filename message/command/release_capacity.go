package command

import (
	"context"
	"fmt"

	"eventsphere/entities"
	observability "eventsphere/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

// ReleaseCapacity replays a seat release that could not be completed inline.
// Returning the error keeps the command in the retry loop until the ledger
// accepts it.
func (h Handler) ReleaseCapacity(ctx context.Context, cmd *entities.ReleaseCapacity) error {
	log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":          cmd.EventID,
		"booking_id":        cmd.BookingID,
		"number_of_tickets": cmd.NumberOfTickets,
		"reason":            cmd.Reason,
	}).Info("Replaying capacity release")

	err := h.ledger.Release(ctx, cmd.EventID, cmd.NumberOfTickets)
	if err != nil {
		return fmt.Errorf("could not release %d seats for event %s: %w", cmd.NumberOfTickets, cmd.EventID, err)
	}

	observability.ReconciliationReplayedTotal.Inc()

	return nil
}
