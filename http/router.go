package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	coordinator BookingCoordinator,
	eventRepo EventRepository,
	bookingRepo BookingRepository,
	jwtSecret string,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(otelecho.Middleware("bookings"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		coordinator: coordinator,
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
	}

	auth := TokenAuthMiddleware(jwtSecret)

	e.POST("/bookings", handler.PostBookings, auth)
	e.POST("/bookings/:booking_id/cancel", handler.PostBookingCancel, auth)
	e.GET("/bookings/:booking_id", handler.GetBookingByID, auth)
	e.POST("/events", handler.PostEvents, auth)
	e.GET("/events", handler.GetEvents)
	e.GET("/events/:event_id", handler.GetEventByID)

	return e
}
