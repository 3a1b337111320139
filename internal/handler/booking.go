package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/service"
)

// BookingHandler exposes the seat map and the booking operation.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  svc must be non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: svc}
}

// flexID accepts an identifier sent either as a JSON string or a number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type bookReq struct {
	ShowtimeID flexID `json:"showtime_id" validate:"required"`
	Seat       string `json:"seat" validate:"required,max=8"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// SeatMap handles GET /seatmap/:showtime_id?date=YYYY-MM-DD.  The first
// read of a showtime and date pre-books a share of the seats; repeated
// reads return the same grid until someone books.
func (h *BookingHandler) SeatMap(c echo.Context) error {
	rows, err := h.Bookings.SeatMap(c.Request().Context(), c.Param("showtime_id"), c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// SeatStatus handles GET /seatmap/:showtime_id/:seat?date=YYYY-MM-DD and
// reports whether a single seat is booked without pre-filling the key.
func (h *BookingHandler) SeatStatus(c echo.Context) error {
	seat := seating.Normalize(c.Param("seat"))
	booked, err := h.Bookings.IsBooked(c.Request().Context(), c.Param("showtime_id"), c.QueryParam("date"), seat)
	if err != nil {
		return writeError(c, err)
	}
	status := model.SeatAvailable
	if booked {
		status = model.SeatBooked
	}
	return c.JSON(http.StatusOK, echo.Map{"seat": seat, "booked": booked, "status": status})
}

// Book handles POST /book.  On success it returns 200 with a message and
// the booking id; a taken seat yields 409 and malformed input 400.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	b, err := h.Bookings.Book(c.Request().Context(), service.BookRequest{
		ShowtimeID: string(req.ShowtimeID),
		Seat:       req.Seat,
		Date:       req.Date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Seat booked successfully",
		"booking_id": b.ID,
		"seat":       b.Seat,
		"date":       b.Date,
		"price":      b.Price,
	})
}
