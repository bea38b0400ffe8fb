package event

import (
	"context"

	"eventsphere/entities"
	observability "eventsphere/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// SendCancellationNotice tells the user their booking was cancelled. Best
// effort, same as the confirmation.
func (h Handler) SendCancellationNotice(ctx context.Context, event *entities.BookingCancelled_v1) error {
	log.FromContext(ctx).Info("Sending cancellation notice")

	err := h.notificationsService.SendCancellationNotice(ctx, entities.BookingNotification{
		BookingID:       event.BookingID,
		UserID:          event.UserID,
		EventID:         event.EventID,
		NumberOfTickets: event.NumberOfTickets,
	})
	if err != nil {
		log.FromContext(ctx).
			WithError(err).
			WithField("booking_id", event.BookingID).
			Error("could not deliver cancellation notice")
		observability.NotificationFailuresTotal.Inc()
	}

	return nil
}
