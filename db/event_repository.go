package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventsphere/booking"
	"eventsphere/entities"

	"github.com/google/uuid"
)

type IEventRepository interface {
	Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error)
	EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	GetAll(ctx context.Context) ([]entities.Event, error)
}

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("missing db")
	}

	return EventRepository{db: db}
}

// Create inserts the event with its full capacity available.
func (er EventRepository) Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error) {
	row := er.db.Conn.QueryRowContext(
		ctx,
		`
		INSERT INTO
		    events (title, venue, price, starts_at, capacity, available_seats)
		VALUES
		    ($1, $2, $3, $4, $5, $5)
		RETURNING event_id`,
		event.Title,
		event.Venue,
		event.Price,
		event.StartsAt,
		event.Capacity,
	)

	var eventID uuid.UUID
	if err := row.Scan(&eventID); err != nil {
		return entities.EventCreateResponse{}, fmt.Errorf("could not add event: %w", err)
	}

	return entities.EventCreateResponse{EventID: eventID}, nil
}

func (er EventRepository) EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	var event entities.Event
	err := er.db.Conn.GetContext(ctx, &event, "SELECT * FROM events WHERE event_id = $1", eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Event{}, booking.ErrEventNotFound
	}
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event %s: %w", eventID, err)
	}

	return event, nil
}

func (er EventRepository) GetAll(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	err := er.db.Conn.SelectContext(ctx, &events, "SELECT * FROM events ORDER BY starts_at")
	if err != nil {
		return nil, fmt.Errorf("could not get events: %w", err)
	}

	return events, nil
}
