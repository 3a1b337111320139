package handler // HTTP handlers for the catalog, booking and operator endpoints

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It returns "ok" with 200 as long as the process
// serves requests; it does not probe the availability store.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
