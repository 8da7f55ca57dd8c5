package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
	"cinebook/internal/layout"
)

// writeBookingError translates engine errors into HTTP responses. Anything
// the engine does not classify falls through to a 500.
func writeBookingError(c echo.Context, err error) error {
	var invalid *booking.InvalidSeatsError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":         "invalid seats",
			"invalid_seats": invalid.Seats,
		})
	}
	var conflict *booking.SeatConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "seats already booked",
			"conflict_seats": conflict.Seats,
		})
	}

	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	case errors.Is(err, booking.ErrReferenceMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment reference mismatch"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	case errors.Is(err, booking.ErrNotCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not cancelled"})
	case errors.Is(err, booking.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already paid"})
	case errors.Is(err, booking.ErrPaymentIncomplete):
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment not completed"})
	case errors.Is(err, booking.ErrPaymentNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no payment in progress"})
	case errors.Is(err, booking.ErrPaymentGateway):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
	case errors.Is(err, layout.ErrUnknownHall):
		// A showtime row pointing at a hall outside the registry is a
		// data-integrity fault, not a client error.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hall layout not registered"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
