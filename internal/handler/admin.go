package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/service"
)

// AdminHandler serves operator views over the availability store.  All
// routes assume JWTAuth and RequireRole(ADMIN) already ran.
type AdminHandler struct {
	Bookings *service.BookingService
}

func NewAdminHandler(svc *service.BookingService) *AdminHandler {
	if svc == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Bookings: svc}
}

// BookedSeats handles GET /v1/admin/bookings/:showtime_id?date=YYYY-MM-DD.
// It lists booked seats in label order with the occupancy of the key and
// does not pre-fill a key that was never read.
func (h *AdminHandler) BookedSeats(c echo.Context) error {
	occ, err := h.Bookings.BookedSeats(c.Request().Context(), c.Param("showtime_id"), c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, occ)
}
