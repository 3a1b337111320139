package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/service"
)

// writeError maps service and store errors onto the JSON error responses
// used across the API.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Seat already booked"})
	case errors.Is(err, service.ErrUnknownShowtime):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat store unavailable"})
	default:
		c.Logger().Errorf("request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
