package http

import (
	"net/http"
	"time"

	"eventsphere/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createEventRequest struct {
	Title    string          `json:"title"`
	Venue    string          `json:"venue"`
	Price    decimal.Decimal `json:"price"`
	StartsAt time.Time       `json:"starts_at"`
	Capacity int             `json:"capacity"`
}

func (h Handler) PostEvents(c echo.Context) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return respondUnauthorized(c, "not authenticated")
	}
	if claims.Role != "admin" {
		return c.JSON(http.StatusForbidden, errorResponse{Kind: "forbidden", Message: "admin role required"})
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return respondValidation(c, "malformed request body")
	}

	if req.Title == "" {
		return respondValidation(c, "title is required")
	}
	if req.Venue == "" {
		return respondValidation(c, "venue is required")
	}
	if req.Capacity < 0 {
		return respondValidation(c, "capacity must not be negative")
	}
	if req.Price.IsNegative() {
		return respondValidation(c, "price must not be negative")
	}
	if req.StartsAt.IsZero() {
		return respondValidation(c, "event start time is required")
	}

	resp, err := h.eventRepo.Create(c.Request().Context(), entities.Event{
		Title:          req.Title,
		Venue:          req.Venue,
		Price:          req.Price,
		StartsAt:       req.StartsAt,
		Capacity:       req.Capacity,
		AvailableSeats: req.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h Handler) GetEvents(c echo.Context) error {
	events, err := h.eventRepo.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, events)
}

func (h Handler) GetEventByID(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return respondValidation(c, "invalid event id")
	}

	event, err := h.eventRepo.EventByID(c.Request().Context(), eventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, event)
}
