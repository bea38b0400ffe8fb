package command

import (
	"context"

	"github.com/google/uuid"
)

type CapacityLedger interface {
	Release(ctx context.Context, eventID uuid.UUID, count int) error
}

type Handler struct {
	ledger CapacityLedger
}

func NewHandler(ledger CapacityLedger) Handler {
	if ledger == nil {
		panic("missing ledger")
	}

	return Handler{
		ledger: ledger,
	}
}
