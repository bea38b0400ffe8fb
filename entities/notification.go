package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingNotification struct {
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingReference string          `json:"booking_reference"`
	UserID           uuid.UUID       `json:"user_id"`
	EventID          uuid.UUID       `json:"event_id"`
	NumberOfTickets  int             `json:"number_of_tickets"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}
