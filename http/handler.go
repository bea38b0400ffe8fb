package http

import (
	"context"

	"eventsphere/booking"
	"eventsphere/entities"

	"github.com/google/uuid"
)

type Handler struct {
	coordinator BookingCoordinator
	eventRepo   EventRepository
	bookingRepo BookingRepository
}

type BookingCoordinator interface {
	CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (entities.BookingResult, error)
	CancelBooking(ctx context.Context, bookingID, requestingUserID uuid.UUID) (entities.CancelResult, error)
}

type EventRepository interface {
	Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error)
	EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	GetAll(ctx context.Context) ([]entities.Event, error)
}

type BookingRepository interface {
	BookingByID(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error)
}
