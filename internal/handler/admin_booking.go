package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
)

// AdminBookingHandler exposes the administrative booking operations. Routes
// using it must be guarded by RequireRole(model.RoleAdmin).
type AdminBookingHandler struct {
	svc *booking.Service
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(svc *booking.Service) *AdminBookingHandler {
	if svc == nil {
		panic("nil service passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{svc: svc}
}

// List handles GET /v1/admin/bookings. It returns every booking in the
// system, newest first, cancelled ones included.
func (h *AdminBookingHandler) List(c echo.Context) error {
	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/admin/bookings/:id. Unlike the user path, an
// already cancelled booking is reported as 409 rather than 404.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.svc.CancelByAdmin(c.Request().Context(), bookingID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// RemoveRecord handles DELETE /v1/admin/bookings/:id/record. It permanently
// deletes a cancelled booking's record; confirmed bookings respond 409.
func (h *AdminBookingHandler) RemoveRecord(c echo.Context) error {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.svc.RemoveCancelled(c.Request().Context(), bookingID); err != nil {
		return writeBookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
