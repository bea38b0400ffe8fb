package api

import (
	"context"
	"sync"

	"eventsphere/entities"
)

type NotificationsMock struct {
	mock sync.Mutex

	ConfirmationsSent []entities.BookingNotification
	CancellationsSent []entities.BookingNotification
}

func (c *NotificationsMock) SendBookingConfirmation(ctx context.Context, notification entities.BookingNotification) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.ConfirmationsSent = append(c.ConfirmationsSent, notification)
	return nil
}

func (c *NotificationsMock) SendCancellationNotice(ctx context.Context, notification entities.BookingNotification) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.CancellationsSent = append(c.CancellationsSent, notification)
	return nil
}

func (c *NotificationsMock) Confirmations() []entities.BookingNotification {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]entities.BookingNotification(nil), c.ConfirmationsSent...)
}

func (c *NotificationsMock) Cancellations() []entities.BookingNotification {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]entities.BookingNotification(nil), c.CancellationsSent...)
}
