package http

import (
	"errors"
	"fmt"
	"net/http"

	"eventsphere/booking"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondError maps domain errors onto the wire taxonomy. Kinds are stable
// API surface; clients branch on them to decide whether a retry makes sense.
func respondError(c echo.Context, err error) error {
	var validationErr booking.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, errorResponse{Kind: "validation", Message: validationErr.Reason})
	case errors.Is(err, booking.ErrCapacityExhausted):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "capacity_exhausted", Message: err.Error()})
	case errors.Is(err, booking.ErrDuplicateInFlight):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "duplicate_in_flight", Message: err.Error()})
	case errors.Is(err, booking.ErrEventNotFound), errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Kind: "not_found", Message: err.Error()})
	case errors.Is(err, booking.ErrNotOwner):
		return c.JSON(http.StatusForbidden, errorResponse{Kind: "forbidden", Message: err.Error()})
	case errors.Is(err, booking.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Kind: "storage_unavailable", Message: "temporary failure, safe to retry"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Kind: "internal", Message: "internal error"})
	}
}

// Auth and malformed-input failures never reach the domain, so they carry no
// error respondError could map. They still emit the same envelope.

func respondUnauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Kind: "unauthorized", Message: message})
}

func respondValidation(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Kind: "validation", Message: message})
}

// httpErrorHandler catches what the handlers never saw, echo's own routing
// errors included, so unknown routes answer with the envelope too. The
// Committed guard keeps it from writing a second body.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		kind := "internal"
		switch httpErr.Code {
		case http.StatusBadRequest, http.StatusMethodNotAllowed:
			kind = "validation"
		case http.StatusUnauthorized:
			kind = "unauthorized"
		case http.StatusForbidden:
			kind = "forbidden"
		case http.StatusNotFound:
			kind = "not_found"
		}
		_ = c.JSON(httpErr.Code, errorResponse{Kind: kind, Message: fmt.Sprintf("%v", httpErr.Message)})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, errorResponse{Kind: "internal", Message: "internal error"})
}
