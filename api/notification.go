package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"eventsphere/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type NotificationsClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewNotificationsClient(baseURL string) *NotificationsClient {
	if baseURL == "" {
		panic("missing notifications API base URL")
	}

	return &NotificationsClient{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

type notificationPayload struct {
	Type             string          `json:"type"`
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingReference string          `json:"booking_reference,omitempty"`
	UserID           uuid.UUID       `json:"user_id"`
	EventID          uuid.UUID       `json:"event_id"`
	NumberOfTickets  int             `json:"number_of_tickets"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

func (nc *NotificationsClient) SendBookingConfirmation(ctx context.Context, notification entities.BookingNotification) error {
	return nc.send(ctx, notificationPayload{
		Type:             "booking_confirmed",
		BookingID:        notification.BookingID,
		BookingReference: notification.BookingReference,
		UserID:           notification.UserID,
		EventID:          notification.EventID,
		NumberOfTickets:  notification.NumberOfTickets,
		TotalAmount:      notification.TotalAmount,
	})
}

func (nc *NotificationsClient) SendCancellationNotice(ctx context.Context, notification entities.BookingNotification) error {
	return nc.send(ctx, notificationPayload{
		Type:            "booking_cancelled",
		BookingID:       notification.BookingID,
		UserID:          notification.UserID,
		EventID:         notification.EventID,
		NumberOfTickets: notification.NumberOfTickets,
	})
}

func (nc *NotificationsClient) send(ctx context.Context, payload notificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nc.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Correlation-ID", log.CorrelationIDFromContext(ctx))

	resp, err := nc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notifications API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code from notifications API: %d", resp.StatusCode)
	}

	return nil
}
