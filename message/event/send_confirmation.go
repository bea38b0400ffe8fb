package event

import (
	"context"

	"eventsphere/entities"
	observability "eventsphere/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// SendBookingConfirmation delivers the confirmation for a freshly confirmed
// booking. Delivery is best effort: the booking outcome is already final, so
// failures are logged and dropped instead of being retried.
func (h Handler) SendBookingConfirmation(ctx context.Context, event *entities.BookingConfirmed_v1) error {
	log.FromContext(ctx).Info("Sending booking confirmation")

	err := h.notificationsService.SendBookingConfirmation(ctx, entities.BookingNotification{
		BookingID:        event.BookingID,
		BookingReference: event.BookingReference,
		UserID:           event.UserID,
		EventID:          event.EventID,
		NumberOfTickets:  event.NumberOfTickets,
		TotalAmount:      event.TotalAmount,
	})
	if err != nil {
		log.FromContext(ctx).
			WithError(err).
			WithField("booking_id", event.BookingID).
			Error("could not deliver booking confirmation")
		observability.NotificationFailuresTotal.Inc()
	}

	return nil
}
