package command

import (
	"context"
	"errors"
	"testing"

	"eventsphere/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	released map[uuid.UUID]int
	err      error
}

func (f *fakeLedger) Release(_ context.Context, eventID uuid.UUID, count int) error {
	if f.err != nil {
		return f.err
	}
	if f.released == nil {
		f.released = map[uuid.UUID]int{}
	}
	f.released[eventID] += count
	return nil
}

func TestReleaseCapacity(t *testing.T) {
	ledger := &fakeLedger{}
	handler := NewHandler(ledger)

	eventID := uuid.New()
	err := handler.ReleaseCapacity(context.Background(), &entities.ReleaseCapacity{
		Header:          entities.NewEventHeader(),
		EventID:         eventID,
		BookingID:       uuid.New(),
		NumberOfTickets: 3,
		Reason:          "cancellation release failed",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, ledger.released[eventID])
}

func TestReleaseCapacityStaysInRetryLoop(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("connection refused")}
	handler := NewHandler(ledger)

	err := handler.ReleaseCapacity(context.Background(), &entities.ReleaseCapacity{
		Header:          entities.NewEventHeader(),
		EventID:         uuid.New(),
		NumberOfTickets: 3,
	})

	// The error must propagate so the message is redelivered.
	assert.Error(t, err)
}
