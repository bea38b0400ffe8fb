package http

import (
	"net/http"

	"eventsphere/booking"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createBookingRequest struct {
	EventID         uuid.UUID `json:"event_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	ClientRequestID string    `json:"client_request_id"`
}

func (h Handler) PostBookings(c echo.Context) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return respondUnauthorized(c, "not authenticated")
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return respondValidation(c, "malformed request body")
	}

	clientRequestID := req.ClientRequestID
	if clientRequestID == "" {
		clientRequestID = c.Request().Header.Get("Idempotency-Key")
	}

	result, err := h.coordinator.CreateBooking(c.Request().Context(), booking.CreateBookingRequest{
		UserID:          claims.UserID,
		EventID:         req.EventID,
		NumberOfTickets: req.NumberOfTickets,
		ClientRequestID: clientRequestID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h Handler) PostBookingCancel(c echo.Context) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return respondUnauthorized(c, "not authenticated")
	}

	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return respondValidation(c, "invalid booking id")
	}

	result, err := h.coordinator.CancelBooking(c.Request().Context(), bookingID, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h Handler) GetBookingByID(c echo.Context) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return respondUnauthorized(c, "not authenticated")
	}

	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return respondValidation(c, "invalid booking id")
	}

	b, err := h.bookingRepo.BookingByID(c.Request().Context(), bookingID)
	if err != nil {
		return respondError(c, err)
	}

	if b.UserID != claims.UserID && claims.Role != "admin" {
		return respondError(c, booking.ErrNotOwner)
	}

	return c.JSON(http.StatusOK, b)
}
