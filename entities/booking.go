package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// IsTerminal reports whether no further transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusFailed
}

func (s BookingStatus) CanBeCancelled() bool {
	return s == BookingStatusConfirmed
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Booking struct {
	BookingID        uuid.UUID       `json:"booking_id" db:"booking_id"`
	BookingReference string          `json:"booking_reference" db:"booking_reference"`
	UserID           uuid.UUID       `json:"user_id" db:"user_id"`
	EventID          uuid.UUID       `json:"event_id" db:"event_id"`
	NumberOfTickets  int             `json:"number_of_tickets" db:"number_of_tickets"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	BookingStatus    BookingStatus   `json:"booking_status" db:"booking_status"`
	PaymentStatus    PaymentStatus   `json:"payment_status" db:"payment_status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

type BookingResult struct {
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingReference string          `json:"booking_reference"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	BookingStatus    BookingStatus   `json:"booking_status"`
}

type CancelResult struct {
	BookingID     uuid.UUID     `json:"booking_id"`
	BookingStatus BookingStatus `json:"booking_status"`
}
