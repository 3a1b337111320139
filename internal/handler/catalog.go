package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/catalog"
)

// CatalogHandler serves the read-only catalog: locations, movies, the
// theatres of a location and the showtimes of a theatre.  Unknown
// locations and theatres produce empty collections, never errors.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.  cat must be non-nil.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	if cat == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: cat}
}

// Locations handles GET /locations.
func (h *CatalogHandler) Locations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.Locations())
}

// Movies handles GET /movies and returns movies keyed by id.
func (h *CatalogHandler) Movies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.Movies())
}

// Theatres handles GET /theatres/:location and returns a theatre id to
// name mapping.  The location match is case-insensitive.
func (h *CatalogHandler) Theatres(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.TheatresIn(c.Param("location")))
}

// Showtimes handles GET /showtimes/:theatre_id with an optional movie_id
// query parameter narrowing the list to one movie.
func (h *CatalogHandler) Showtimes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.ShowtimesFor(c.Param("theatre_id"), c.QueryParam("movie_id")))
}
