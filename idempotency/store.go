package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventsphere/entities"
	"eventsphere/pkg/clock"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "idempotency:v1:"

var ErrNotFound = errors.New("idempotency entry not found")

type Status string

const (
	StatusInFlight  Status = "in-flight"
	StatusCompleted Status = "completed"
)

type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeFailed    Outcome = "failed"
)

const ErrorKindCapacityExhausted = "capacity_exhausted"

// Entry is the recorded state of one logical booking request. In-flight
// entries shield the request while it runs, completed ones are replayed to
// retries verbatim.
type Entry struct {
	Status           Status          `json:"status"`
	Outcome          Outcome         `json:"outcome,omitempty"`
	BookingID        uuid.UUID       `json:"booking_id,omitempty"`
	BookingReference string          `json:"booking_reference,omitempty"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ErrorKind        string          `json:"error_kind,omitempty"`
	RecordedAt       time.Time       `json:"recorded_at"`
}

func NewConfirmedEntry(result entities.BookingResult) Entry {
	return Entry{
		Status:           StatusCompleted,
		Outcome:          OutcomeConfirmed,
		BookingID:        result.BookingID,
		BookingReference: result.BookingReference,
		TotalAmount:      result.TotalAmount,
	}
}

func NewFailedEntry(errorKind string) Entry {
	return Entry{
		Status:    StatusCompleted,
		Outcome:   OutcomeFailed,
		ErrorKind: errorKind,
	}
}

// Result reconstructs the response that was returned when the entry was
// completed. Only meaningful for confirmed outcomes.
func (e Entry) Result() entities.BookingResult {
	return entities.BookingResult{
		BookingID:        e.BookingID,
		BookingReference: e.BookingReference,
		TotalAmount:      e.TotalAmount,
		BookingStatus:    entities.BookingStatusConfirmed,
	}
}

type RedisStore struct {
	rdb          *redis.Client
	inFlightTTL  time.Duration
	completedTTL time.Duration
	clock        clock.Clock
}

func NewRedisStore(rdb *redis.Client, inFlightTTL, completedTTL time.Duration, clk clock.Clock) *RedisStore {
	if rdb == nil {
		panic("missing redis client")
	}
	if inFlightTTL <= 0 {
		panic("in-flight TTL must be positive")
	}
	if completedTTL <= 0 {
		panic("completed TTL must be positive")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}

	return &RedisStore{
		rdb:          rdb,
		inFlightTTL:  inFlightTTL,
		completedTTL: completedTTL,
		clock:        clk,
	}
}

// Begin claims the key for this request. The claim is a single SET NX GET, so
// exactly one of any set of concurrent callers gets created=true; the rest
// receive the entry the winner wrote.
func (s *RedisStore) Begin(ctx context.Context, key string) (Entry, bool, error) {
	entry := Entry{
		Status:     StatusInFlight,
		RecordedAt: s.clock.Now(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, false, fmt.Errorf("could not marshal idempotency entry: %w", err)
	}

	prev, err := s.rdb.SetArgs(ctx, keyPrefix+key, payload, redis.SetArgs{
		Mode: "NX",
		Get:  true,
		TTL:  s.inFlightTTL,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return entry, true, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("could not claim idempotency key: %w", err)
	}

	var existing Entry
	if err := json.Unmarshal([]byte(prev), &existing); err != nil {
		return Entry{}, false, fmt.Errorf("could not unmarshal idempotency entry: %w", err)
	}

	return existing, false, nil
}

// Complete replaces the in-flight entry with the final outcome and extends the
// TTL to the completed retention window.
func (s *RedisStore) Complete(ctx context.Context, key string, entry Entry) error {
	entry.Status = StatusCompleted
	entry.RecordedAt = s.clock.Now()

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("could not marshal idempotency entry: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+key, payload, s.completedTTL).Err(); err != nil {
		return fmt.Errorf("could not store idempotency outcome: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("could not read idempotency entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, fmt.Errorf("could not unmarshal idempotency entry: %w", err)
	}

	return entry, nil
}

// Abort drops the in-flight entry so the next retry of the same request can
// run instead of being rejected as a duplicate.
func (s *RedisStore) Abort(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("could not drop idempotency entry: %w", err)
	}

	return nil
}
