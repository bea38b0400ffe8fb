package event

import (
	"context"

	"eventsphere/entities"
)

type NotificationsService interface {
	SendBookingConfirmation(ctx context.Context, notification entities.BookingNotification) error
	SendCancellationNotice(ctx context.Context, notification entities.BookingNotification) error
}

type Handler struct {
	notificationsService NotificationsService
}

func NewHandler(notificationsService NotificationsService) Handler {
	if notificationsService == nil {
		panic("missing notificationsService")
	}

	return Handler{
		notificationsService: notificationsService,
	}
}
