package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	EventID        uuid.UUID       `json:"event_id" db:"event_id"`
	Title          string          `json:"title" db:"title"`
	Venue          string          `json:"venue" db:"venue"`
	Price          decimal.Decimal `json:"price" db:"price"`
	StartsAt       time.Time       `json:"starts_at" db:"starts_at"`
	Capacity       int             `json:"capacity" db:"capacity"`
	AvailableSeats int             `json:"available_seats" db:"available_seats"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type EventCreateResponse struct {
	EventID uuid.UUID `json:"event_id"`
}
