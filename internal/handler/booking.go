package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
	"cinebook/internal/middleware"
)

// BookingHandler exposes the reservation engine over HTTP. All methods
// except the public browse endpoints assume JWT authentication ran earlier
// in the chain; they return 401 when no identity is present.
type BookingHandler struct {
	svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler. The service must be non-nil.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// ListShowtimes handles GET /v1/movies/:movieId/showtimes. It returns all
// scheduled showtimes for a movie, soonest first.
func (h *BookingHandler) ListShowtimes(c echo.Context) error {
	movieID, ok := pathID(c, "movieId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	items, err := h.svc.Showtimes(c.Request().Context(), movieID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SeatAvailability handles GET /v1/showtimes/:id/seats. It returns the hall
// layout together with the booked and available seat labels for the showtime.
func (h *BookingHandler) SeatAvailability(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	avail, err := h.svc.Availability(c.Request().Context(), showtimeID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, avail)
}

// Create handles POST /v1/bookings. The body carries the showtime and the
// requested seat labels; on success the confirmed booking is returned with
// 201 Created. Contested seats yield 409 with the losing labels.
func (h *BookingHandler) Create(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowtimeID uint64   `json:"showtime_id"`
		Seats      []string `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	b, err := h.svc.Reserve(c.Request().Context(), body.ShowtimeID, ident.UserID, body.Seats)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// History handles GET /v1/bookings/history. It returns the caller's
// bookings, newest first, including cancelled ones until an admin removes
// their records.
func (h *BookingHandler) History(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.svc.History(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/bookings/:id. A booking that does not exist, is
// not owned by the caller, or is already cancelled responds 404 in all
// three cases.
func (h *BookingHandler) Cancel(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.svc.CancelByUser(c.Request().Context(), bookingID, ident)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// InitiatePayment handles POST /v1/bookings/:id/payment/initiate. On
// success it returns the gateway reference and the URL the customer must
// visit to pay.
func (h *BookingHandler) InitiatePayment(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	intent, err := h.svc.InitiatePayment(c.Request().Context(), bookingID, ident)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_ref": intent.Ref,
		"payment_url": intent.RedirectURL,
	})
}

// VerifyPayment handles POST /v1/bookings/:id/payment/verify. The body
// carries the gateway reference handed back on the return redirect.
func (h *BookingHandler) VerifyPayment(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Pidx string `json:"pidx"`
		Ref  string `json:"payment_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ref := body.Pidx
	if ref == "" {
		ref = body.Ref
	}
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pidx is required"})
	}
	b, err := h.svc.VerifyPayment(c.Request().Context(), bookingID, ref, ident)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
