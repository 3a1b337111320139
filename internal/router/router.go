package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/utils"
)

// RegisterRoutes registers operational routes that do not touch the
// booking state: the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterStatic serves poster images and other assets from dir under
// /static.  An empty dir disables the route.
func RegisterStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	e.Static("/static", dir)
}

// RegisterCatalog registers the read-only catalog endpoints.  cache wraps
// every route; pass a pass-through middleware to disable caching.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/locations", h.Locations, cache)
	e.GET("/movies", h.Movies, cache)
	e.GET("/theatres/:location", h.Theatres, cache)
	e.GET("/showtimes/:theatre_id", h.Showtimes, cache)
}

// RegisterBooking registers the seat map and booking endpoints.  The seat
// map reflects live store state and is never cached; limiter only guards
// POST /book.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, limiter echo.MiddlewareFunc) {
	e.GET("/seatmap/:showtime_id", h.SeatMap)
	e.GET("/seatmap/:showtime_id/:seat", h.SeatStatus)
	e.POST("/book", h.Book, limiter)
}

// RegisterAuth registers operator login under /v1/auth and the
// JWT-protected admin routes under /v1.  Every protected route requires
// the ADMIN role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, adm *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(utils.RoleAdmin))
	auth.GET("/me", a.Me)
	auth.GET("/admin/bookings/:showtime_id", adm.BookedSeats)
}
