package entities

import "github.com/google/uuid"

// ReleaseCapacity asks the capacity worker to return seats to an event's pool.
// It is sent when an inline release could not be completed and the discrepancy
// must be replayed out of band.
type ReleaseCapacity struct {
	Header EventHeader `json:"header"`

	EventID         uuid.UUID `json:"event_id"`
	BookingID       uuid.UUID `json:"booking_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	Reason          string    `json:"reason"`
}
