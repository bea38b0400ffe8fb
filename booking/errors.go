package booking

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCapacityExhausted is returned when the requested seats exceed what is
	// left on the event. Retrying does not help until capacity frees up.
	ErrCapacityExhausted = errors.New("not enough seats available")

	// ErrDuplicateInFlight is returned when a request with the same
	// idempotency key is still being processed. Safe to retry shortly.
	ErrDuplicateInFlight = errors.New("identical request is already being processed")

	ErrNotOwner = errors.New("booking belongs to another user")

	// ErrStorageUnavailable marks infrastructure failures. The idempotency key
	// makes a retry of the same request safe.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}
