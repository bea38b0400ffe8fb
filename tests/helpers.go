package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/require"
)

const (
	baseURL       = "http://localhost:8080"
	testJWTSecret = "test-secret"
)

type bookingResult struct {
	BookingID        string `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	TotalAmount      string `json:"total_amount"`
	BookingStatus    string `json:"booking_status"`
}

type cancelResult struct {
	BookingID     string `json:"booking_id"`
	BookingStatus string `json:"booking_status"`
}

type eventView struct {
	EventID        string `json:"event_id"`
	Title          string `json:"title"`
	Capacity       int    `json:"capacity"`
	AvailableSeats int    `json:"available_seats"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return token
}

func doRequest(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(method, baseURL+path, bytes.NewBuffer(payload))
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func createEvent(t *testing.T, adminToken string, capacity int, price string) string {
	t.Helper()

	status, body := doRequest(t, http.MethodPost, "/events", adminToken, map[string]any{
		"title":     "Component Test Event",
		"venue":     "Test Hall",
		"price":     price,
		"starts_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"capacity":  capacity,
	})
	require.Equal(t, http.StatusCreated, status, "create event failed: %s", body)

	var resp struct {
		EventID string `json:"event_id"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.EventID)

	return resp.EventID
}

func createBooking(t *testing.T, token, eventID string, numberOfTickets int, clientRequestID string) (int, bookingResult, apiError) {
	t.Helper()

	status, body := doRequest(t, http.MethodPost, "/bookings", token, map[string]any{
		"event_id":          eventID,
		"number_of_tickets": numberOfTickets,
		"client_request_id": clientRequestID,
	})

	if status == http.StatusCreated {
		var result bookingResult
		require.NoError(t, json.Unmarshal(body, &result))
		return status, result, apiError{}
	}

	var apiErr apiError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return status, bookingResult{}, apiErr
}

func cancelBooking(t *testing.T, token, bookingID string) (int, cancelResult) {
	t.Helper()

	status, body := doRequest(t, http.MethodPost, "/bookings/"+bookingID+"/cancel", token, nil)

	var result cancelResult
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, &result))
	}

	return status, result
}

func getEvent(t *testing.T, eventID string) eventView {
	t.Helper()

	status, body := doRequest(t, http.MethodGet, "/events/"+eventID, "", nil)
	require.Equal(t, http.StatusOK, status)

	var view eventView
	require.NoError(t, json.Unmarshal(body, &view))

	return view
}
