package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Bookings that reached confirmed status",
		},
	)

	BookingsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Bookings cancelled by their owner",
		},
	)

	BookingsDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_denied_total",
			Help: "Booking requests denied, by reason",
		},
		[]string{"reason"},
	)

	IdempotentReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_idempotent_replays_total",
			Help: "Requests answered from a completed idempotency entry",
		},
	)

	DuplicateInFlightTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_duplicate_in_flight_total",
			Help: "Requests rejected because an identical request was in flight",
		},
	)

	SeatsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capacity_seats_released_total",
			Help: "Seats returned to the capacity ledger",
		},
	)

	CapacityOverReleaseTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capacity_over_release_total",
			Help: "Releases that would have pushed available seats above capacity",
		},
	)

	ReconciliationQueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capacity_reconciliation_queued_total",
			Help: "Capacity releases that failed inline and were queued for replay",
		},
	)

	ReconciliationReplayedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capacity_reconciliation_replayed_total",
			Help: "Queued capacity releases replayed successfully",
		},
	)

	NotificationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notification deliveries that failed and were dropped",
		},
	)
)
