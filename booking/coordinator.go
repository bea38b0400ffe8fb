package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventsphere/entities"
	"eventsphere/idempotency"
	"eventsphere/pkg/clock"
	observability "eventsphere/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const inFlightPollInterval = 50 * time.Millisecond

type EventRepository interface {
	EventByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking entities.Booking) error
	BookingByID(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error)
	MarkCancelled(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) (bool, error)
}

type CapacityLedger interface {
	Reserve(ctx context.Context, eventID uuid.UUID, count int) (bool, error)
	Release(ctx context.Context, eventID uuid.UUID, count int) error
}

type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (idempotency.Entry, bool, error)
	Complete(ctx context.Context, key string, entry idempotency.Entry) error
	Get(ctx context.Context, key string) (idempotency.Entry, error)
	Abort(ctx context.Context, key string) error
}

type CommandSender interface {
	Send(ctx context.Context, cmd any) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Config struct {
	// MaxTicketsPerRequest bounds a single booking. Zero means the default of 10.
	MaxTicketsPerRequest int

	// InFlightWait is how long a duplicate request waits for the original to
	// finish before giving up. Zero means fail fast.
	InFlightWait time.Duration

	// KeyBucket groups requests without a client request id into one logical
	// request per time window. Zero means the default of 5 minutes.
	KeyBucket time.Duration
}

// Coordinator runs the booking flow: claim the idempotency key, reserve
// seats, persist the booking, record the outcome. Seats are only ever
// decremented through the ledger, so a booking can fail at any step without
// leaking capacity.
type Coordinator struct {
	events        EventRepository
	bookings      BookingRepository
	ledger        CapacityLedger
	idem          IdempotencyStore
	commandSender CommandSender
	publisher     EventPublisher
	clock         clock.Clock
	config        Config
}

func NewCoordinator(
	events EventRepository,
	bookings BookingRepository,
	ledger CapacityLedger,
	idem IdempotencyStore,
	commandSender CommandSender,
	publisher EventPublisher,
	clk clock.Clock,
	config Config,
) Coordinator {
	if events == nil {
		panic("missing events repository")
	}
	if bookings == nil {
		panic("missing bookings repository")
	}
	if ledger == nil {
		panic("missing capacity ledger")
	}
	if idem == nil {
		panic("missing idempotency store")
	}
	if commandSender == nil {
		panic("missing command sender")
	}
	if publisher == nil {
		panic("missing event publisher")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if config.MaxTicketsPerRequest <= 0 {
		config.MaxTicketsPerRequest = 10
	}
	if config.KeyBucket <= 0 {
		config.KeyBucket = 5 * time.Minute
	}

	return Coordinator{
		events:        events,
		bookings:      bookings,
		ledger:        ledger,
		idem:          idem,
		commandSender: commandSender,
		publisher:     publisher,
		clock:         clk,
		config:        config,
	}
}

type CreateBookingRequest struct {
	UserID          uuid.UUID
	EventID         uuid.UUID
	NumberOfTickets int
	ClientRequestID string
}

// CreateBooking books seats for a user. Retries carrying the same client
// request id get the recorded outcome of the first attempt instead of a
// second booking.
func (c Coordinator) CreateBooking(ctx context.Context, req CreateBookingRequest) (entities.BookingResult, error) {
	if req.NumberOfTickets < 1 {
		return entities.BookingResult{}, ValidationError{Reason: "number of tickets must be at least 1"}
	}
	if req.NumberOfTickets > c.config.MaxTicketsPerRequest {
		return entities.BookingResult{}, ValidationError{
			Reason: fmt.Sprintf("number of tickets must not exceed %d", c.config.MaxTicketsPerRequest),
		}
	}

	event, err := c.events.EventByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return entities.BookingResult{}, ValidationError{Reason: "event does not exist"}
		}
		return entities.BookingResult{}, errors.Join(ErrStorageUnavailable, err)
	}
	if !event.StartsAt.After(c.clock.Now()) {
		return entities.BookingResult{}, ValidationError{Reason: "event has already started"}
	}

	key := deriveIdempotencyKey(req.UserID, req.EventID, req.ClientRequestID, req.NumberOfTickets, c.clock.Now(), c.config.KeyBucket)

	entry, created, err := c.idem.Begin(ctx, key)
	if err != nil {
		return entities.BookingResult{}, errors.Join(ErrStorageUnavailable, err)
	}
	if !created {
		return c.resolveExisting(ctx, key, entry)
	}

	reserved, err := c.ledger.Reserve(ctx, req.EventID, req.NumberOfTickets)
	if err != nil {
		// nothing was decremented, only the claimed key must be returned
		c.abortEntry(ctx, key)
		return entities.BookingResult{}, errors.Join(ErrStorageUnavailable, err)
	}
	if !reserved {
		observability.BookingsDeniedTotal.WithLabelValues("capacity_exhausted").Inc()
		c.completeEntry(ctx, key, idempotency.NewFailedEntry(idempotency.ErrorKindCapacityExhausted))
		return entities.BookingResult{}, ErrCapacityExhausted
	}

	booking := entities.Booking{
		BookingID:        uuid.New(),
		BookingReference: shortuuid.New(),
		UserID:           req.UserID,
		EventID:          req.EventID,
		NumberOfTickets:  req.NumberOfTickets,
		TotalAmount:      event.Price.Mul(decimal.NewFromInt(int64(req.NumberOfTickets))),
		BookingStatus:    entities.BookingStatusConfirmed,
		PaymentStatus:    entities.PaymentStatusCompleted,
		CreatedAt:        c.clock.Now(),
	}

	if err := c.bookings.Create(ctx, booking); err != nil {
		c.releaseOrReconcile(ctx, req.EventID, booking.BookingID, req.NumberOfTickets, "booking persistence failed")
		c.abortEntry(ctx, key)
		return entities.BookingResult{}, errors.Join(ErrStorageUnavailable, err)
	}

	result := entities.BookingResult{
		BookingID:        booking.BookingID,
		BookingReference: booking.BookingReference,
		TotalAmount:      booking.TotalAmount,
		BookingStatus:    entities.BookingStatusConfirmed,
	}

	c.completeEntry(ctx, key, idempotency.NewConfirmedEntry(result))

	observability.BookingsConfirmedTotal.Inc()
	log.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":        booking.BookingID,
		"booking_reference": booking.BookingReference,
		"event_id":          booking.EventID,
		"number_of_tickets": booking.NumberOfTickets,
	}).Info("Booking confirmed")

	return result, nil
}

// CancelBooking cancels a confirmed booking of the requesting user and
// returns its seats to the event. Repeating the call is a no-op with the same
// response; the seats are restored exactly once.
func (c Coordinator) CancelBooking(ctx context.Context, bookingID, requestingUserID uuid.UUID) (entities.CancelResult, error) {
	booking, err := c.bookings.BookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return entities.CancelResult{}, err
		}
		return entities.CancelResult{}, errors.Join(ErrStorageUnavailable, err)
	}

	if booking.UserID != requestingUserID {
		return entities.CancelResult{}, ErrNotOwner
	}

	result := entities.CancelResult{
		BookingID:     bookingID,
		BookingStatus: entities.BookingStatusCancelled,
	}

	if booking.BookingStatus == entities.BookingStatusCancelled {
		return result, nil
	}
	if !booking.BookingStatus.CanBeCancelled() {
		return entities.CancelResult{}, ValidationError{
			Reason: fmt.Sprintf("booking in status %s cannot be cancelled", booking.BookingStatus),
		}
	}

	flipped, err := c.bookings.MarkCancelled(ctx, bookingID, c.clock.Now())
	if err != nil {
		return entities.CancelResult{}, errors.Join(ErrStorageUnavailable, err)
	}
	if !flipped {
		// a concurrent cancellation won the status flip and owns the release
		return result, nil
	}

	c.releaseOrReconcile(ctx, booking.EventID, bookingID, booking.NumberOfTickets, "cancellation release failed")

	err = c.publisher.Publish(ctx, entities.BookingCancelled_v1{
		Header:          entities.NewEventHeader(),
		BookingID:       bookingID,
		UserID:          booking.UserID,
		EventID:         booking.EventID,
		NumberOfTickets: booking.NumberOfTickets,
	})
	if err != nil {
		log.FromContext(ctx).
			WithError(err).
			WithField("booking_id", bookingID).
			Error("could not publish BookingCancelled_v1")
	}

	observability.BookingsCancelledTotal.Inc()
	log.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":        bookingID,
		"event_id":          booking.EventID,
		"number_of_tickets": booking.NumberOfTickets,
	}).Info("Booking cancelled")

	return result, nil
}

// resolveExisting handles a request whose idempotency key is already taken:
// completed entries are replayed, in-flight ones are waited on or rejected
// per the configured policy.
func (c Coordinator) resolveExisting(ctx context.Context, key string, entry idempotency.Entry) (entities.BookingResult, error) {
	if entry.Status == idempotency.StatusCompleted {
		return c.replay(ctx, entry)
	}

	if c.config.InFlightWait <= 0 {
		observability.DuplicateInFlightTotal.Inc()
		return entities.BookingResult{}, ErrDuplicateInFlight
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.config.InFlightWait)
	defer cancel()

	for {
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return entities.BookingResult{}, ctx.Err()
			}
			observability.DuplicateInFlightTotal.Inc()
			return entities.BookingResult{}, ErrDuplicateInFlight
		case <-time.After(inFlightPollInterval):
		}

		refreshed, err := c.idem.Get(ctx, key)
		if errors.Is(err, idempotency.ErrNotFound) {
			// the original attempt aborted; the caller retries with the same key
			return entities.BookingResult{}, ErrDuplicateInFlight
		}
		if err != nil {
			return entities.BookingResult{}, errors.Join(ErrStorageUnavailable, err)
		}

		if refreshed.Status == idempotency.StatusCompleted {
			return c.replay(ctx, refreshed)
		}
	}
}

func (c Coordinator) replay(ctx context.Context, entry idempotency.Entry) (entities.BookingResult, error) {
	observability.IdempotentReplaysTotal.Inc()
	log.FromContext(ctx).WithField("outcome", entry.Outcome).Info("Replaying recorded booking outcome")

	if entry.Outcome == idempotency.OutcomeConfirmed {
		return entry.Result(), nil
	}

	switch entry.ErrorKind {
	case idempotency.ErrorKindCapacityExhausted:
		return entities.BookingResult{}, ErrCapacityExhausted
	default:
		return entities.BookingResult{}, fmt.Errorf("request previously failed: %s", entry.ErrorKind)
	}
}

// releaseOrReconcile returns seats to the ledger. When the inline release
// fails the discrepancy is queued as a ReleaseCapacity command, so the seats
// come back once the ledger is reachable again.
func (c Coordinator) releaseOrReconcile(ctx context.Context, eventID, bookingID uuid.UUID, count int, reason string) {
	err := c.ledger.Release(ctx, eventID, count)
	if err == nil {
		return
	}

	log.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
		"event_id":          eventID,
		"booking_id":        bookingID,
		"number_of_tickets": count,
		"reason":            reason,
	}).Error("could not release seats inline, queueing reconciliation")

	cmd := entities.ReleaseCapacity{
		Header:          entities.NewEventHeader(),
		EventID:         eventID,
		BookingID:       bookingID,
		NumberOfTickets: count,
		Reason:          reason,
	}
	if sendErr := c.commandSender.Send(ctx, cmd); sendErr != nil {
		// both the ledger and the command bus are down; the log line is the
		// last record of the discrepancy
		log.FromContext(ctx).WithError(sendErr).WithFields(logrus.Fields{
			"event_id":          eventID,
			"booking_id":        bookingID,
			"number_of_tickets": count,
		}).Error("CONSISTENCY ALARM: could not queue capacity release reconciliation")
		return
	}

	observability.ReconciliationQueuedTotal.Inc()
}

func (c Coordinator) completeEntry(ctx context.Context, key string, entry idempotency.Entry) {
	if err := c.idem.Complete(ctx, key, entry); err != nil {
		// the outcome stands; retries are shielded by the in-flight entry
		// until it expires
		log.FromContext(ctx).WithError(err).Error("could not record idempotency outcome")
	}
}

func (c Coordinator) abortEntry(ctx context.Context, key string) {
	if err := c.idem.Abort(ctx, key); err != nil {
		log.FromContext(ctx).WithError(err).Error("could not drop idempotency entry")
	}
}
